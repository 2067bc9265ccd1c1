package team

import "fmt"

// Team is a Premier League club as stored locally. FeedID carries the
// provider team id and is kept alongside the natural name key.
type Team struct {
	ID        int64
	Name      string
	ShortCode string
	FeedID    int64
	City      string
	Stadium   string
	LogoURL   string
}

func (t Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.ShortCode == "" {
		return fmt.Errorf("team short code is required")
	}

	return nil
}
