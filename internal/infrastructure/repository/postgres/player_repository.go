package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ftbldata/fpl-sync/internal/domain/player"
	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
	qb "github.com/ftbldata/fpl-sync/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListAll(ctx context.Context) ([]player.Player, error) {
	query, err := qb.Select("*").From("fpl_players").OrderBy("player_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:              row.ID,
			FeedID:          row.FeedID,
			TeamID:          row.TeamID,
			FirstName:       row.FirstName,
			LastName:        row.LastName,
			WebName:         row.WebName,
			Position:        player.Position(row.Position),
			GoalsScored:     row.GoalsScored,
			Assists:         row.Assists,
			TotalPoints:     row.TotalPoints,
			Minutes:         row.Minutes,
			YellowCards:     row.YellowCards,
			RedCards:        row.RedCards,
			Cost:            row.Cost,
			Form:            row.Form,
			ChanceOfPlaying: nullInt64ToIntPtr(row.ChanceOfPlaying),
			Status:          row.Status,
			News:            row.News,
		})
	}

	return out, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, item player.Player) (syncrun.UpsertAction, error) {
	insertModel := playerInsertModel{
		FeedID:          item.FeedID,
		TeamID:          item.TeamID,
		FirstName:       item.FirstName,
		LastName:        item.LastName,
		WebName:         item.WebName,
		Position:        string(item.Position),
		GoalsScored:     item.GoalsScored,
		Assists:         item.Assists,
		TotalPoints:     item.TotalPoints,
		Minutes:         item.Minutes,
		YellowCards:     item.YellowCards,
		RedCards:        item.RedCards,
		Cost:            item.Cost,
		Form:            item.Form,
		ChanceOfPlaying: intPtrToNullInt64(item.ChanceOfPlaying),
		Status:          item.Status,
		News:            item.News,
	}
	query, args, err := qb.InsertModel("fpl_players", insertModel, `ON CONFLICT (fpl_id) DO UPDATE SET
    team_id = EXCLUDED.team_id,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    web_name = EXCLUDED.web_name,
    position = EXCLUDED.position,
    goals_scored = EXCLUDED.goals_scored,
    assists = EXCLUDED.assists,
    total_points = EXCLUDED.total_points,
    minutes = EXCLUDED.minutes,
    yellow_cards = EXCLUDED.yellow_cards,
    red_cards = EXCLUDED.red_cards,
    now_cost = EXCLUDED.now_cost,
    form = EXCLUDED.form,
    chance_of_playing_next_round = EXCLUDED.chance_of_playing_next_round,
    status = EXCLUDED.status,
    news = EXCLUDED.news,
    updated_at = NOW()
RETURNING player_id AS id, (xmax = 0) AS inserted`)
	if err != nil {
		return "", fmt.Errorf("build upsert player query: %w", err)
	}

	var row upsertResultRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return "", fmt.Errorf("upsert player web_name=%s: team_id=%d does not exist: %w", item.WebName, item.TeamID, err)
		}
		return "", fmt.Errorf("upsert player web_name=%s: %w", item.WebName, err)
	}

	return row.Action(), nil
}

func nullInt64ToIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func intPtrToNullInt64(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}
