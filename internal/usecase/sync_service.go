package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ftbldata/fpl-sync/internal/domain/fixture"
	"github.com/ftbldata/fpl-sync/internal/domain/player"
	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
	"github.com/ftbldata/fpl-sync/internal/domain/team"
	"github.com/ftbldata/fpl-sync/internal/platform/logging"
)

type SyncConfig struct {
	JobName string
}

// SyncService pulls the feed's current state and reconciles local
// teams, players and fixtures against it. Phases run in order because
// players reference teams and fixtures reference both sides.
type SyncService struct {
	provider    FeedProvider
	teamRepo    team.Repository
	playerRepo  player.Repository
	fixtureRepo fixture.Repository
	lock        syncrun.RunLock
	cfg         SyncConfig
	validate    *validator.Validate
	logger      *logging.Logger
	now         func() time.Time
}

func NewSyncService(
	provider FeedProvider,
	teamRepo team.Repository,
	playerRepo player.Repository,
	fixtureRepo fixture.Repository,
	lock syncrun.RunLock,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.JobName) == "" {
		cfg.JobName = "fpl-sync"
	}

	return &SyncService{
		provider:    provider,
		teamRepo:    teamRepo,
		playerRepo:  playerRepo,
		fixtureRepo: fixtureRepo,
		lock:        lock,
		cfg:         cfg,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes one full sync. A feed fetch failure aborts the run;
// unresolvable references and per-record persistence failures are
// counted and the run continues.
func (s *SyncService) Run(ctx context.Context) (syncrun.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer span.End()

	if s.provider == nil || s.teamRepo == nil || s.playerRepo == nil || s.fixtureRepo == nil || s.lock == nil {
		s.logger.WarnContext(ctx,
			"skip sync: service is not fully configured",
			"provider_nil", s.provider == nil,
			"team_repo_nil", s.teamRepo == nil,
			"player_repo_nil", s.playerRepo == nil,
			"fixture_repo_nil", s.fixtureRepo == nil,
			"lock_nil", s.lock == nil,
		)
		return syncrun.Report{}, fmt.Errorf("%w: sync service is not fully configured", ErrDependencyUnavailable)
	}

	release, acquired, err := s.lock.Acquire(ctx, s.cfg.JobName)
	if err != nil {
		return syncrun.Report{}, fmt.Errorf("acquire sync lock job=%s: %w", s.cfg.JobName, err)
	}
	if !acquired {
		return syncrun.Report{}, fmt.Errorf("%w: job=%s", ErrSyncInProgress, s.cfg.JobName)
	}
	defer func() {
		if releaseErr := release(ctx); releaseErr != nil {
			s.logger.WarnContext(ctx, "release sync lock failed", "job", s.cfg.JobName, "error", releaseErr)
		}
	}()

	report := syncrun.Report{StartedAt: s.now().UTC()}

	static, err := s.provider.FetchStaticData(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch static data from feed: %w", err)
	}

	report.Teams = s.syncTeams(ctx, static.Teams)
	s.logPhase(ctx, "teams", report.Teams)

	mappings, err := s.loadTeamMappings(ctx)
	if err != nil {
		return report, err
	}
	feedTeamNames := feedTeamNamesByID(static.Teams)

	report.Players = s.syncPlayers(ctx, static.Players, mappings, feedTeamNames)
	s.logPhase(ctx, "players", report.Players)

	fixtures, err := s.provider.FetchFixtures(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch fixtures from feed: %w", err)
	}

	// Reload so fixtures see teams inserted earlier in this run.
	mappings, err = s.loadTeamMappings(ctx)
	if err != nil {
		return report, err
	}

	report.Fixtures = s.syncFixtures(ctx, fixtures, mappings, feedTeamNames)
	s.logPhase(ctx, "fixtures", report.Fixtures)

	report.FinishedAt = s.now().UTC()
	return report, nil
}

func (s *SyncService) syncTeams(ctx context.Context, items []FeedTeam) syncrun.Counts {
	var counts syncrun.Counts
	for _, item := range items {
		if err := s.validate.Struct(item); err != nil {
			s.logger.WarnContext(ctx, "skip invalid feed team", "feed_team_id", item.FeedID, "error", err)
			counts.Skipped++
			continue
		}

		action, err := s.teamRepo.Upsert(ctx, team.Team{
			Name:      item.Name,
			ShortCode: item.ShortName,
			FeedID:    item.FeedID,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "upsert team failed", "team_name", item.Name, "error", err)
			counts.Failed++
			continue
		}
		counts.Record(action)
	}
	return counts
}

func (s *SyncService) syncPlayers(
	ctx context.Context,
	items []FeedPlayer,
	mappings teamMappings,
	feedTeamNames map[int64]string,
) syncrun.Counts {
	var counts syncrun.Counts
	for _, item := range items {
		if err := s.validate.Struct(item); err != nil {
			s.logger.WarnContext(ctx, "skip invalid feed player", "feed_player_id", item.FeedID, "error", err)
			counts.Skipped++
			continue
		}

		teamID := resolveTeamID(mappings, item.TeamFeedID, feedTeamNames[item.TeamFeedID])
		if teamID <= 0 {
			s.logger.WarnContext(ctx, "skip player: team not found locally", "web_name", item.WebName, "feed_team_id", item.TeamFeedID)
			counts.Skipped++
			continue
		}

		row := player.Player{
			FeedID:          item.FeedID,
			TeamID:          teamID,
			FirstName:       item.FirstName,
			LastName:        item.LastName,
			WebName:         item.WebName,
			Position:        player.Position(item.Position),
			GoalsScored:     item.GoalsScored,
			Assists:         item.Assists,
			TotalPoints:     item.TotalPoints,
			Minutes:         item.Minutes,
			YellowCards:     item.YellowCards,
			RedCards:        item.RedCards,
			Cost:            item.Cost,
			Form:            item.Form,
			ChanceOfPlaying: cloneIntPtr(item.ChanceOfPlaying),
			Status:          item.Status,
			News:            item.News,
		}
		if err := row.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid player", "web_name", item.WebName, "error", err)
			counts.Skipped++
			continue
		}

		action, err := s.playerRepo.Upsert(ctx, row)
		if err != nil {
			s.logger.ErrorContext(ctx, "upsert player failed", "web_name", item.WebName, "error", err)
			counts.Failed++
			continue
		}
		counts.Record(action)
	}
	return counts
}

func (s *SyncService) syncFixtures(
	ctx context.Context,
	items []FeedFixture,
	mappings teamMappings,
	feedTeamNames map[int64]string,
) syncrun.Counts {
	var counts syncrun.Counts
	for _, item := range items {
		if err := s.validate.Struct(item); err != nil {
			s.logger.WarnContext(ctx, "skip invalid feed fixture", "feed_fixture_id", item.FeedID, "error", err)
			counts.Skipped++
			continue
		}

		homeTeamID := resolveTeamID(mappings, item.HomeTeamFeedID, feedTeamNames[item.HomeTeamFeedID])
		awayTeamID := resolveTeamID(mappings, item.AwayTeamFeedID, feedTeamNames[item.AwayTeamFeedID])
		if homeTeamID <= 0 || awayTeamID <= 0 {
			s.logger.WarnContext(ctx, "skip fixture: team mapping missing", "feed_fixture_id", item.FeedID, "home_feed_id", item.HomeTeamFeedID, "away_feed_id", item.AwayTeamFeedID)
			counts.Skipped++
			continue
		}

		action, err := s.fixtureRepo.Upsert(ctx, fixture.Fixture{
			FeedID:     item.FeedID,
			Gameweek:   item.Gameweek,
			KickoffAt:  cloneTimePtr(item.KickoffAt),
			HomeTeamID: homeTeamID,
			AwayTeamID: awayTeamID,
			HomeScore:  cloneIntPtr(item.HomeScore),
			AwayScore:  cloneIntPtr(item.AwayScore),
			Finished:   item.Finished,
			Started:    item.Started,
			Difficulty: item.Difficulty,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "upsert fixture failed", "feed_fixture_id", item.FeedID, "error", err)
			counts.Failed++
			continue
		}
		counts.Record(action)
	}
	return counts
}

func (s *SyncService) logPhase(ctx context.Context, phase string, counts syncrun.Counts) {
	s.logger.InfoContext(ctx, "sync phase finished",
		"phase", phase,
		"inserted", counts.Inserted,
		"updated", counts.Updated,
		"skipped", counts.Skipped,
		"failed", counts.Failed,
	)
}

type teamMappings struct {
	byFeedID map[int64]int64
	byName   map[string]int64
}

func (s *SyncService) loadTeamMappings(ctx context.Context) (teamMappings, error) {
	teams, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return teamMappings{}, fmt.Errorf("list teams for sync: %w", err)
	}

	out := teamMappings{
		byFeedID: make(map[int64]int64, len(teams)),
		byName:   make(map[string]int64, len(teams)),
	}
	for _, item := range teams {
		if item.FeedID > 0 {
			out.byFeedID[item.FeedID] = item.ID
		}
		normalized := normalizeTeamName(item.Name)
		if normalized != "" {
			out.byName[normalized] = item.ID
		}
	}

	return out, nil
}

func feedTeamNamesByID(items []FeedTeam) map[int64]string {
	out := make(map[int64]string, len(items))
	for _, item := range items {
		if item.FeedID > 0 {
			out[item.FeedID] = item.Name
		}
	}
	return out
}

func resolveTeamID(mappings teamMappings, feedID int64, name string) int64 {
	if feedID > 0 {
		if teamID := mappings.byFeedID[feedID]; teamID > 0 {
			return teamID
		}
	}

	normalized := normalizeTeamName(name)
	if normalized == "" {
		return 0
	}
	return mappings.byName[normalized]
}

func normalizeTeamName(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}

	var builder strings.Builder
	lastDash := false
	for _, r := range value {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			builder.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(builder.String(), "-")
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	v := value.UTC()
	return &v
}
