package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
	"github.com/ftbldata/fpl-sync/internal/domain/team"
	qb "github.com/ftbldata/fpl-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListAll(ctx context.Context) ([]team.Team, error) {
	query, err := qb.Select("*").From("fpl_teams").OrderBy("team_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:        row.ID,
			Name:      row.Name,
			ShortCode: row.ShortCode,
			FeedID:    row.FeedID.Int64,
			City:      row.City.String,
			Stadium:   row.Stadium.String,
			LogoURL:   row.LogoURL.String,
		})
	}

	return out, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) (syncrun.UpsertAction, error) {
	insertModel := teamInsertModel{
		Name:      item.Name,
		ShortCode: item.ShortCode,
		FeedID:    sql.NullInt64{Int64: item.FeedID, Valid: item.FeedID > 0},
	}
	query, args, err := qb.InsertModel("fpl_teams", insertModel, `ON CONFLICT (name) DO UPDATE SET
    short_code = EXCLUDED.short_code,
    fpl_team_id = EXCLUDED.fpl_team_id,
    updated_at = NOW()
RETURNING team_id AS id, (xmax = 0) AS inserted`)
	if err != nil {
		return "", fmt.Errorf("build upsert team query: %w", err)
	}

	var row upsertResultRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		// The conflict target is the name, so a unique violation here
		// means the feed id is already bound to a differently named row.
		if isUniqueViolation(err) {
			return "", fmt.Errorf("upsert team name=%s: feed id %d already assigned to another team: %w", item.Name, item.FeedID, err)
		}
		return "", fmt.Errorf("upsert team name=%s: %w", item.Name, err)
	}

	return row.Action(), nil
}
