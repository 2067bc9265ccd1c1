package syncrun

import "time"

// UpsertAction reports whether a write created a new row or refreshed
// an existing one.
type UpsertAction string

const (
	ActionInserted UpsertAction = "inserted"
	ActionUpdated  UpsertAction = "updated"
)

// Counts accumulates per-record outcomes for one sync phase.
type Counts struct {
	Inserted int
	Updated  int
	Skipped  int
	Failed   int
}

func (c *Counts) Record(action UpsertAction) {
	switch action {
	case ActionInserted:
		c.Inserted++
	case ActionUpdated:
		c.Updated++
	}
}

func (c Counts) Total() int {
	return c.Inserted + c.Updated + c.Skipped + c.Failed
}

// Report is the outcome of a full sync run.
type Report struct {
	Teams      Counts
	Players    Counts
	Fixtures   Counts
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is zero for runs that never finished.
func (r Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
