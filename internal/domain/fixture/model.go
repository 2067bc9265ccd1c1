package fixture

import (
	"fmt"
	"time"
)

// Fixture represents one scheduled match between two local teams.
// KickoffAt is nil for fixtures the feed has not scheduled yet.
type Fixture struct {
	ID         int64
	FeedID     int64
	Gameweek   int
	KickoffAt  *time.Time
	HomeTeamID int64
	AwayTeamID int64
	HomeScore  *int
	AwayScore  *int
	Finished   bool
	Started    bool
	Difficulty int
}

func (f Fixture) Validate() error {
	if f.FeedID <= 0 {
		return fmt.Errorf("fixture feed id is required")
	}
	if f.HomeTeamID <= 0 {
		return fmt.Errorf("fixture home team id is required")
	}
	if f.AwayTeamID <= 0 {
		return fmt.Errorf("fixture away team id is required")
	}

	return nil
}
