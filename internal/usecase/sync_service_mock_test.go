package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/ftbldata/fpl-sync/internal/infrastructure/repository/memory"
	"github.com/ftbldata/fpl-sync/internal/platform/logging"
)

type mockRunLock struct {
	mock.Mock
}

func (m *mockRunLock) Acquire(ctx context.Context, jobName string) (func(context.Context) error, bool, error) {
	args := m.Called(ctx, jobName)
	release, _ := args.Get(0).(func(context.Context) error)
	return release, args.Bool(1), args.Error(2)
}

func TestSyncService_Run_ReleasesLockOnFeedFailure(t *testing.T) {
	t.Parallel()

	released := false
	lock := &mockRunLock{}
	lock.
		On("Acquire", mock.Anything, "fpl-sync").
		Return(func(context.Context) error {
			released = true
			return nil
		}, true, nil).
		Once()

	provider := &stubFeedProvider{staticErr: errors.New("feed down")}
	svc := NewSyncService(provider, memory.NewTeamRepository(), memory.NewPlayerRepository(), memory.NewFixtureRepository(), lock, SyncConfig{JobName: "fpl-sync"}, logging.NewNop())

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected feed failure to abort the run")
	}
	if !released {
		t.Fatal("expected lock release after aborted run")
	}
	lock.AssertExpectations(t)
}

func TestSyncService_Run_PropagatesLockErrors(t *testing.T) {
	t.Parallel()

	lockErr := errors.New("lock backend unavailable")
	lock := &mockRunLock{}
	lock.
		On("Acquire", mock.Anything, "fpl-sync").
		Return(nil, false, lockErr).
		Once()

	provider := &stubFeedProvider{}
	svc := NewSyncService(provider, memory.NewTeamRepository(), memory.NewPlayerRepository(), memory.NewFixtureRepository(), lock, SyncConfig{JobName: "fpl-sync"}, logging.NewNop())

	_, err := svc.Run(context.Background())
	if !errors.Is(err, lockErr) {
		t.Fatalf("expected lock error, got %v", err)
	}
	lock.AssertExpectations(t)
}
