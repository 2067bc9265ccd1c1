package player

import "fmt"

// Position represents the feed's element type names.
type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefender   Position = "Defender"
	PositionMidfielder Position = "Midfielder"
	PositionForward    Position = "Forward"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// Player is one feed element with its season-to-date statistics.
type Player struct {
	ID              int64
	FeedID          int64
	TeamID          int64
	FirstName       string
	LastName        string
	WebName         string
	Position        Position
	GoalsScored     int
	Assists         int
	TotalPoints     int
	Minutes         int
	YellowCards     int
	RedCards        int
	Cost            float64
	Form            float64
	ChanceOfPlaying *int
	Status          string
	News            string
}

func (p Player) Validate() error {
	if p.FeedID <= 0 {
		return fmt.Errorf("player feed id is required")
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("player team id is required")
	}
	if p.WebName == "" {
		return fmt.Errorf("player web name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}

	return nil
}
