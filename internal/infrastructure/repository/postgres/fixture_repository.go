package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ftbldata/fpl-sync/internal/domain/fixture"
	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
	qb "github.com/ftbldata/fpl-sync/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListAll(ctx context.Context) ([]fixture.Fixture, error) {
	query, err := qb.Select("*").From("fpl_fixtures").OrderBy("fixture_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Fixture{
			ID:         row.ID,
			FeedID:     row.FeedID,
			Gameweek:   row.Gameweek,
			KickoffAt:  nullTimeToTimePtr(row.KickoffAt),
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
			HomeScore:  nullInt64ToIntPtr(row.HomeScore),
			AwayScore:  nullInt64ToIntPtr(row.AwayScore),
			Finished:   row.Finished,
			Started:    row.Started,
			Difficulty: row.Difficulty,
		})
	}

	return out, nil
}

func (r *FixtureRepository) Upsert(ctx context.Context, item fixture.Fixture) (syncrun.UpsertAction, error) {
	insertModel := fixtureInsertModel{
		FeedID:     item.FeedID,
		Gameweek:   item.Gameweek,
		KickoffAt:  timePtrToNullTime(item.KickoffAt),
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		HomeScore:  intPtrToNullInt64(item.HomeScore),
		AwayScore:  intPtrToNullInt64(item.AwayScore),
		Finished:   item.Finished,
		Started:    item.Started,
		Difficulty: item.Difficulty,
	}
	query, args, err := qb.InsertModel("fpl_fixtures", insertModel, `ON CONFLICT (fpl_fixture_id) DO UPDATE SET
    gameweek = EXCLUDED.gameweek,
    kickoff_time = EXCLUDED.kickoff_time,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    finished = EXCLUDED.finished,
    started = EXCLUDED.started,
    difficulty = EXCLUDED.difficulty,
    updated_at = NOW()
RETURNING fixture_id AS id, (xmax = 0) AS inserted`)
	if err != nil {
		return "", fmt.Errorf("build upsert fixture query: %w", err)
	}

	var row upsertResultRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return "", fmt.Errorf("upsert fixture fpl_fixture_id=%d: team reference does not exist: %w", item.FeedID, err)
		}
		return "", fmt.Errorf("upsert fixture fpl_fixture_id=%d: %w", item.FeedID, err)
	}

	return row.Action(), nil
}

func nullTimeToTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	v := value.Time.UTC()
	return &v
}

func timePtrToNullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: value.UTC(), Valid: true}
}
