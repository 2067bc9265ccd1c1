package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ftbldata/fpl-sync/internal/domain/fixture"
	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
)

type FixtureRepository struct {
	mu       sync.RWMutex
	byFeedID map[int64]fixture.Fixture
	nextID   int64
}

func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{byFeedID: make(map[int64]fixture.Fixture), nextID: 1}
}

func (r *FixtureRepository) ListAll(_ context.Context) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.byFeedID))
	for _, item := range r.byFeedID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *FixtureRepository) Upsert(_ context.Context, item fixture.Fixture) (syncrun.UpsertAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byFeedID[item.FeedID]; ok {
		item.ID = existing.ID
		r.byFeedID[item.FeedID] = item
		return syncrun.ActionUpdated, nil
	}

	item.ID = r.nextID
	r.nextID++
	r.byFeedID[item.FeedID] = item

	return syncrun.ActionInserted, nil
}
