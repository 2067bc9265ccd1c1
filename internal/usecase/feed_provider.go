package usecase

import (
	"context"
	"time"
)

// FeedProvider fetches raw documents from the upstream fantasy feed.
type FeedProvider interface {
	FetchStaticData(ctx context.Context) (FeedStaticData, error)
	FetchFixtures(ctx context.Context) ([]FeedFixture, error)
}

// FeedStaticData is the feed's bootstrap document reduced to the
// entities this service persists.
type FeedStaticData struct {
	Teams   []FeedTeam
	Players []FeedPlayer
}

type FeedTeam struct {
	FeedID    int64  `validate:"required,gt=0"`
	Name      string `validate:"required"`
	ShortName string `validate:"required"`
}

type FeedPlayer struct {
	FeedID          int64  `validate:"required,gt=0"`
	TeamFeedID      int64  `validate:"required,gt=0"`
	FirstName       string
	LastName        string
	WebName         string `validate:"required"`
	Position        string `validate:"required"`
	GoalsScored     int    `validate:"gte=0"`
	Assists         int    `validate:"gte=0"`
	TotalPoints     int
	Minutes         int `validate:"gte=0"`
	YellowCards     int `validate:"gte=0"`
	RedCards        int `validate:"gte=0"`
	Cost            float64
	Form            float64
	ChanceOfPlaying *int
	Status          string
	News            string
}

type FeedFixture struct {
	FeedID         int64 `validate:"required,gt=0"`
	Gameweek       int   `validate:"gte=0"`
	KickoffAt      *time.Time
	HomeTeamFeedID int64 `validate:"required,gt=0"`
	AwayTeamFeedID int64 `validate:"required,gt=0"`
	HomeScore      *int
	AwayScore      *int
	Finished       bool
	Started        bool
	Difficulty     int
}
