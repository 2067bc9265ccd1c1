package team

import (
	"context"

	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
)

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListAll(ctx context.Context) ([]Team, error)
	Upsert(ctx context.Context, item Team) (syncrun.UpsertAction, error)
}
