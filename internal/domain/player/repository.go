package player

import (
	"context"

	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
)

// Repository describes player persistence needs from use cases.
type Repository interface {
	ListAll(ctx context.Context) ([]Player, error)
	Upsert(ctx context.Context, item Player) (syncrun.UpsertAction, error)
}
