package usecase

import "errors"

var (
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrSyncInProgress        = errors.New("sync run already in progress")
)
