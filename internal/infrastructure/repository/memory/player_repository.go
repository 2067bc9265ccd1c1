package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ftbldata/fpl-sync/internal/domain/player"
	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
)

type PlayerRepository struct {
	mu       sync.RWMutex
	byFeedID map[int64]player.Player
	nextID   int64
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{byFeedID: make(map[int64]player.Player), nextID: 1}
}

func (r *PlayerRepository) ListAll(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.byFeedID))
	for _, item := range r.byFeedID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, item player.Player) (syncrun.UpsertAction, error) {
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
