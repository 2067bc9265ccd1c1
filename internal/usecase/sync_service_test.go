package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ftbldata/fpl-sync/internal/domain/player"
	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
	"github.com/ftbldata/fpl-sync/internal/infrastructure/repository/memory"
	"github.com/ftbldata/fpl-sync/internal/platform/logging"
)

func TestSyncService_Run_InsertsThenUpdates(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2025, 8, 16, 14, 0, 0, 0, time.UTC)
	provider := &stubFeedProvider{
		static: FeedStaticData{
			Teams: []FeedTeam{
				{FeedID: 1, Name: "Arsenal", ShortName: "ARS"},
				{FeedID: 2, Name: "Chelsea", ShortName: "CHE"},
			},
			Players: []FeedPlayer{
				{FeedID: 100, TeamFeedID: 1, FirstName: "Bukayo", LastName: "Saka", WebName: "Saka", Position: "Midfielder", TotalPoints: 12, Cost: 10.0},
				{FeedID: 200, TeamFeedID: 2, FirstName: "Cole", LastName: "Palmer", WebName: "Palmer", Position: "Midfielder", TotalPoints: 9, Cost: 10.5},
			},
		},
		fixtures: []FeedFixture{
			{FeedID: 500, Gameweek: 1, KickoffAt: &kickoff, HomeTeamFeedID: 1, AwayTeamFeedID: 2, Difficulty: 4},
		},
	}

	teamRepo := memory.NewTeamRepository()
	playerRepo := memory.NewPlayerRepository()
	fixtureRepo := memory.NewFixtureRepository()
	svc := NewSyncService(provider, teamRepo, playerRepo, fixtureRepo, memory.NewRunLock(), SyncConfig{}, logging.NewNop())

	first, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Teams.Inserted != 2 || first.Teams.Updated != 0 {
		t.Fatalf("unexpected first team counts: %+v", first.Teams)
	}
	if first.Players.Inserted != 2 {
		t.Fatalf("unexpected first player counts: %+v", first.Players)
	}
	if first.Fixtures.Inserted != 1 {
		t.Fatalf("unexpected first fixture counts: %+v", first.Fixtures)
	}

	// Same feed again with one changed attribute must update in place.
	provider.static.Teams[1].ShortName = "CFC"

	second, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Teams.Inserted != 0 || second.Teams.Updated != 2 {
		t.Fatalf("unexpected second team counts: %+v", second.Teams)
	}
	if second.Players.Inserted != 0 || second.Players.Updated != 2 {
		t.Fatalf("unexpected second player counts: %+v", second.Players)
	}
	if second.Fixtures.Inserted != 0 || second.Fixtures.Updated != 1 {
		t.Fatalf("unexpected second fixture counts: %+v", second.Fixtures)
	}

	teams, err := teamRepo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams after both runs, got %d", len(teams))
	}
	for _, item := range teams {
		if item.Name == "Chelsea" && item.ShortCode != "CFC" {
			t.Fatalf("expected Chelsea short code CFC, got %q", item.ShortCode)
		}
	}
}

func TestSyncService_Run_SkipsPlayersWithUnknownTeam(t *testing.T) {
	t.Parallel()

	provider := &stubFeedProvider{
		static: FeedStaticData{
			Teams: []FeedTeam{
				{FeedID: 1, Name: "Arsenal", ShortName: "ARS"},
			},
			Players: []FeedPlayer{
				{FeedID: 100, TeamFeedID: 1, WebName: "Saka", Position: "Midfielder"},
				{FeedID: 200, TeamFeedID: 99, WebName: "Ghost", Position: "Forward"},
			},
		},
	}

	svc := NewSyncService(provider, memory.NewTeamRepository(), memory.NewPlayerRepository(), memory.NewFixtureRepository(), memory.NewRunLock(), SyncConfig{}, logging.NewNop())

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Players.Inserted != 1 {
		t.Fatalf("expected 1 player inserted, got %+v", report.Players)
	}
	if report.Players.Skipped != 1 {
		t.Fatalf("expected 1 player skipped, got %+v", report.Players)
	}
	if report.Players.Failed != 0 {
		t.Fatalf("expected no player failures, got %+v", report.Players)
	}
}

func TestSyncService_Run_SkipsFixtureWhenEitherTeamUnknown(t *testing.T) {
	t.Parallel()

	provider := &stubFeedProvider{
		static: FeedStaticData{
			Teams: []FeedTeam{
				{FeedID: 1, Name: "Arsenal", ShortName: "ARS"},
				{FeedID: 2, Name: "Chelsea", ShortName: "CHE"},
			},
		},
		fixtures: []FeedFixture{
			{FeedID: 500, Gameweek: 1, HomeTeamFeedID: 1, AwayTeamFeedID: 2},
			{FeedID: 501, Gameweek: 1, HomeTeamFeedID: 1, AwayTeamFeedID: 77},
			{FeedID: 502, Gameweek: 1, HomeTeamFeedID: 88, AwayTeamFeedID: 2},
		},
	}

	svc := NewSyncService(provider, memory.NewTeamRepository(), memory.NewPlayerRepository(), memory.NewFixtureRepository(), memory.NewRunLock(), SyncConfig{}, logging.NewNop())

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Fixtures.Inserted != 1 {
		t.Fatalf("expected 1 fixture inserted, got %+v", report.Fixtures)
	}
	if report.Fixtures.Skipped != 2 {
		t.Fatalf("expected 2 fixtures skipped, got %+v", report.Fixtures)
	}
}

func TestSyncService_Run_SkipsInvalidFeedRecords(t *testing.T) {
	t.Parallel()

	provider := &stubFeedProvider{
		static: FeedStaticData{
			Teams: []FeedTeam{
				{FeedID: 1, Name: "Arsenal", ShortName: "ARS"},
				{FeedID: 0, Name: "Nameless", ShortName: "NON"},
			},
			Players: []FeedPlayer{
				{FeedID: 100, TeamFeedID: 1, WebName: "", Position: "Midfielder"},
			},
		},
	}

	svc := NewSyncService(provider, memory.NewTeamRepository(), memory.NewPlayerRepository(), memory.NewFixtureRepository(), memory.NewRunLock(), SyncConfig{}, logging.NewNop())

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Teams.Inserted != 1 || report.Teams.Skipped != 1 {
		t.Fatalf("unexpected team counts: %+v", report.Teams)
	}
	if report.Players.Skipped != 1 {
		t.Fatalf("expected invalid player skipped, got %+v", report.Players)
	}
}

func TestSyncService_Run_FeedFailureAborts(t *testing.T) {
	t.Parallel()

	feedErr := errors.New("upstream unavailable")
	provider := &stubFeedProvider{staticErr: feedErr}

	svc := NewSyncService(provider, memory.NewTeamRepository(), memory.NewPlayerRepository(), memory.NewFixtureRepository(), memory.NewRunLock(), SyncConfig{}, logging.NewNop())

	_, err := svc.Run(context.Background())
	if !errors.Is(err, feedErr) {
		t.Fatalf("expected feed error, got %v", err)
	}
}

func TestSyncService_Run_FixtureFetchFailureAborts(t *testing.T) {
	t.Parallel()

	feedErr := errors.New("fixtures unavailable")
	provider := &stubFeedProvider{
		static: FeedStaticData{
			Teams: []FeedTeam{
				{FeedID: 1, Name: "Arsenal", ShortName: "ARS"},
				{FeedID: 2, Name: "Chelsea", ShortName: "CHE"},
			},
			Players: []FeedPlayer{
				{FeedID: 100, TeamFeedID: 1, WebName: "Saka", Position: "Midfielder"},
			},
		},
		fixturesErr: feedErr,
	}

	svc := NewSyncService(provider, memory.NewTeamRepository(), memory.NewPlayerRepository(), memory.NewFixtureRepository(), memory.NewRunLock(), SyncConfig{}, logging.NewNop())

	report, err := svc.Run(context.Background())
	if !errors.Is(err, feedErr) {
		t.Fatalf("expected fixtures error, got %v", err)
	}
	// The phases that finished before the failure keep their counts.
	if report.Teams.Inserted != 2 {
		t.Fatalf("expected 2 teams inserted before abort, got %+v", report.Teams)
	}
	if report.Players.Inserted != 1 {
		t.Fatalf("expected 1 player inserted before abort, got %+v", report.Players)
	}
	if report.Fixtures != (syncrun.Counts{}) {
		t.Fatalf("expected empty fixture counts, got %+v", report.Fixtures)
	}
}

func TestSyncService_Run_PersistenceFailuresAreIsolated(t *testing.T) {
	t.Parallel()

	provider := &stubFeedProvider{
		static: FeedStaticData{
			Teams: []FeedTeam{
				{FeedID: 1, Name: "Arsenal", ShortName: "ARS"},
			},
			Players: []FeedPlayer{
				{FeedID: 100, TeamFeedID: 1, WebName: "Saka", Position: "Midfielder"},
				{FeedID: 200, TeamFeedID: 1, WebName: "Rice", Position: "Midfielder"},
				{FeedID: 300, TeamFeedID: 1, WebName: "Raya", Position: "Goalkeeper"},
			},
		},
	}

	playerRepo := &failingPlayerRepo{
		inner:      memory.NewPlayerRepository(),
		failFeedID: 200,
	}
	svc := NewSyncService(provider, memory.NewTeamRepository(), playerRepo, memory.NewFixtureRepository(), memory.NewRunLock(), SyncConfig{}, logging.NewNop())

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Players.Inserted != 2 {
		t.Fatalf("expected 2 players inserted, got %+v", report.Players)
	}
	if report.Players.Failed != 1 {
		t.Fatalf("expected 1 player failed, got %+v", report.Players)
	}
}

func TestSyncService_Run_RejectsConcurrentRuns(t *testing.T) {
	t.Parallel()

	lock := memory.NewRunLock()
	release, acquired, err := lock.Acquire(context.Background(), "fpl-sync")
	if err != nil || !acquired {
		t.Fatalf("pre-acquire lock: acquired=%t err=%v", acquired, err)
	}
	defer func() { _ = release(context.Background()) }()

	provider := &stubFeedProvider{}
	svc := NewSyncService(provider, memory.NewTeamRepository(), memory.NewPlayerRepository(), memory.NewFixtureRepository(), lock, SyncConfig{JobName: "fpl-sync"}, logging.NewNop())

	_, err = svc.Run(context.Background())
	if !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}
}

func TestSyncService_Run_RequiresDependencies(t *testing.T) {
	t.Parallel()

	svc := NewSyncService(nil, nil, nil, nil, nil, SyncConfig{}, logging.NewNop())

	_, err := svc.Run(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestResolveTeamID(t *testing.T) {
	t.Parallel()

	mappings := teamMappings{
		byFeedID: map[int64]int64{7: 42},
		byName:   map[string]int64{"nottingham-forest": 42, "arsenal": 10},
	}

	t.Run("prefers feed id", func(t *testing.T) {
		t.Parallel()
		if got := resolveTeamID(mappings, 7, "Arsenal"); got != 42 {
			t.Fatalf("expected feed id match 42, got %d", got)
		}
	})

	t.Run("falls back to normalized name", func(t *testing.T) {
		t.Parallel()
		if got := resolveTeamID(mappings, 99, "Nottingham Forest"); got != 42 {
			t.Fatalf("expected name match 42, got %d", got)
		}
	})

	t.Run("requires exact normalized match", func(t *testing.T) {
		t.Parallel()
		if got := resolveTeamID(mappings, 99, "Nottingham"); got != 0 {
			t.Fatalf("expected no match for partial name, got %d", got)
		}
	})

	t.Run("no match returns zero", func(t *testing.T) {
		t.Parallel()
		if got := resolveTeamID(mappings, 99, "Wrexham"); got != 0 {
			t.Fatalf("expected zero, got %d", got)
		}
	})
}

func TestNormalizeTeamName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Arsenal":            "arsenal",
		" Nottingham Forest": "nottingham-forest",
		"Brighton & Hove":    "brighton-hove",
		"  ":                 "",
		"AFC-Bournemouth":    "afc-bournemouth",
	}

	for in, want := range cases {
		if got := normalizeTeamName(in); got != want {
			t.Fatalf("normalizeTeamName(%q) = %q, want %q", in, got, want)
		}
	}
}

type stubFeedProvider struct {
	static      FeedStaticData
	staticErr   error
	fixtures    []FeedFixture
	fixturesErr error
}

func (p *stubFeedProvider) FetchStaticData(_ context.Context) (FeedStaticData, error) {
	if p.staticErr != nil {
		return FeedStaticData{}, p.staticErr
	}
	return p.static, nil
}

func (p *stubFeedProvider) FetchFixtures(_ context.Context) ([]FeedFixture, error) {
	if p.fixturesErr != nil {
		return nil, p.fixturesErr
	}
	return p.fixtures, nil
}

type failingPlayerRepo struct {
	inner      *memory.PlayerRepository
	failFeedID int64
}

func (r *failingPlayerRepo) ListAll(ctx context.Context) ([]player.Player, error) {
	return r.inner.ListAll(ctx)
}

func (r *failingPlayerRepo) Upsert(ctx context.Context, item player.Player) (syncrun.UpsertAction, error) {
	if item.FeedID == r.failFeedID {
		return "", errors.New("storage rejected row")
	}
	return r.inner.Upsert(ctx, item)
}
