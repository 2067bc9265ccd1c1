package fixture

import (
	"context"

	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
)

// Repository describes fixture persistence needs from use cases.
type Repository interface {
	ListAll(ctx context.Context) ([]Fixture, error)
	Upsert(ctx context.Context, item Fixture) (syncrun.UpsertAction, error)
}
