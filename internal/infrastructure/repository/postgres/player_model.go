package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID              int64         `db:"player_id"`
	FeedID          int64         `db:"fpl_id"`
	TeamID          int64         `db:"team_id"`
	FirstName       string        `db:"first_name"`
	LastName        string        `db:"last_name"`
	WebName         string        `db:"web_name"`
	Position        string        `db:"position"`
	GoalsScored     int           `db:"goals_scored"`
	Assists         int           `db:"assists"`
	TotalPoints     int           `db:"total_points"`
	Minutes         int           `db:"minutes"`
	YellowCards     int           `db:"yellow_cards"`
	RedCards        int           `db:"red_cards"`
	Cost            float64       `db:"now_cost"`
	Form            float64       `db:"form"`
	ChanceOfPlaying sql.NullInt64 `db:"chance_of_playing_next_round"`
	Status          string        `db:"status"`
	News            string        `db:"news"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

type playerInsertModel struct {
	FeedID          int64         `db:"fpl_id"`
	TeamID          int64         `db:"team_id"`
	FirstName       string        `db:"first_name"`
	LastName        string        `db:"last_name"`
	WebName         string        `db:"web_name"`
	Position        string        `db:"position"`
	GoalsScored     int           `db:"goals_scored"`
	Assists         int           `db:"assists"`
	TotalPoints     int           `db:"total_points"`
	Minutes         int           `db:"minutes"`
	YellowCards     int           `db:"yellow_cards"`
	RedCards        int           `db:"red_cards"`
	Cost            float64       `db:"now_cost"`
	Form            float64       `db:"form"`
	ChanceOfPlaying sql.NullInt64 `db:"chance_of_playing_next_round"`
	Status          string        `db:"status"`
	News            string        `db:"news"`
}
