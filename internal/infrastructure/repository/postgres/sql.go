package postgres

import (
	"errors"

	"github.com/lib/pq"

	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
)

// upsertResultRow carries the outcome of an INSERT ... ON CONFLICT
// statement. A zero xmax on the returned row means a fresh insert.
type upsertResultRow struct {
	ID       int64 `db:"id"`
	Inserted bool  `db:"inserted"`
}

func (r upsertResultRow) Action() syncrun.UpsertAction {
	if r.Inserted {
		return syncrun.ActionInserted
	}
	return syncrun.ActionUpdated
}

func isUniqueViolation(err error) bool {
	return pqErrorCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pqErrorCode(err) == "23503"
}

func pqErrorCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}
