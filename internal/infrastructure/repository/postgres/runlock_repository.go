package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// RunLockRepository serializes sync runs across processes with a
// session-level advisory lock keyed by job name. The lock lives on a
// dedicated connection so pool rotation cannot release it early.
type RunLockRepository struct {
	db *sqlx.DB
}

func NewRunLockRepository(db *sqlx.DB) *RunLockRepository {
	return &RunLockRepository{db: db}
}

func (r *RunLockRepository) Acquire(ctx context.Context, jobName string) (func(context.Context) error, bool, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock connection job=%s: %w", jobName, err)
	}

	var acquired bool
	if err := conn.GetContext(ctx, &acquired, "SELECT pg_try_advisory_lock(hashtext($1))", jobName); err != nil {
		_ = conn.Close()
		return nil, false, fmt.Errorf("try advisory lock job=%s: %w", jobName, err)
	}
	if !acquired {
		_ = conn.Close()
		return nil, false, nil
	}

	release := func(releaseCtx context.Context) error {
		defer conn.Close()

		var unlocked bool
		if err := conn.GetContext(releaseCtx, &unlocked, "SELECT pg_advisory_unlock(hashtext($1))", jobName); err != nil {
			return fmt.Errorf("release advisory lock job=%s: %w", jobName, err)
		}
		if !unlocked {
			return fmt.Errorf("advisory lock job=%s was not held", jobName)
		}
		return nil
	}
	return release, true, nil
}
