package postgres

import (
	"database/sql"
	"time"
)

type fixtureTableModel struct {
	ID         int64         `db:"fixture_id"`
	FeedID     int64         `db:"fpl_fixture_id"`
	Gameweek   int           `db:"gameweek"`
	KickoffAt  sql.NullTime  `db:"kickoff_time"`
	HomeTeamID int64         `db:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id"`
	HomeScore  sql.NullInt64 `db:"home_score"`
	AwayScore  sql.NullInt64 `db:"away_score"`
	Finished   bool          `db:"finished"`
	Started    bool          `db:"started"`
	Difficulty int           `db:"difficulty"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

type fixtureInsertModel struct {
	FeedID     int64         `db:"fpl_fixture_id"`
	Gameweek   int           `db:"gameweek"`
	KickoffAt  sql.NullTime  `db:"kickoff_time"`
	HomeTeamID int64         `db:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id"`
	HomeScore  sql.NullInt64 `db:"home_score"`
	AwayScore  sql.NullInt64 `db:"away_score"`
	Finished   bool          `db:"finished"`
	Started    bool          `db:"started"`
	Difficulty int           `db:"difficulty"`
}
