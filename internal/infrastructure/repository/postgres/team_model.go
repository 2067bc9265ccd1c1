package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID        int64          `db:"team_id"`
	Name      string         `db:"name"`
	ShortCode string         `db:"short_code"`
	FeedID    sql.NullInt64  `db:"fpl_team_id"`
	City      sql.NullString `db:"city"`
	Stadium   sql.NullString `db:"stadium"`
	LogoURL   sql.NullString `db:"logo_url"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type teamInsertModel struct {
	Name      string        `db:"name"`
	ShortCode string        `db:"short_code"`
	FeedID    sql.NullInt64 `db:"fpl_team_id"`
}
