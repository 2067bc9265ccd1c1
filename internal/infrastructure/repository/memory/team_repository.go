package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
	"github.com/ftbldata/fpl-sync/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	byName map[string]team.Team
	nextID int64
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{byName: make(map[string]team.Team), nextID: 1}
}

func (r *TeamRepository) ListAll(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.byName))
	for _, item := range r.byName {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) (syncrun.UpsertAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[item.Name]; ok {
		item.ID = existing.ID
		r.byName[item.Name] = item
		return syncrun.ActionUpdated, nil
	}

	item.ID = r.nextID
	r.nextID++
	r.byName[item.Name] = item

	return syncrun.ActionInserted, nil
}
