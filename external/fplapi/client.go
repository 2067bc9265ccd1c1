package fplapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/ftbldata/fpl-sync/internal/platform/logging"
	"github.com/ftbldata/fpl-sync/internal/platform/resilience"
	"github.com/ftbldata/fpl-sync/internal/usecase"
)

const (
	defaultBaseURL     = "https://fantasy.premierleague.com/api"
	staticDataEndpoint = "/bootstrap-static/"
	fixturesEndpoint   = "/fixtures/"
)

var errFeedTransient = crerr.New("feed transient failure")

// FetchError describes a failed feed request. StatusCode is zero when
// the request never produced an HTTP response.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status=%d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	BackoffUnit    time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	backoffUnit    time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	backoffUnit := cfg.BackoffUnit
	if backoffUnit <= 0 {
		backoffUnit = time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		backoffUnit:    backoffUnit,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchStaticData(ctx context.Context) (usecase.FeedStaticData, error) {
	var envelope staticEnvelope
	if err := c.doJSON(ctx, staticDataEndpoint, &envelope); err != nil {
		return usecase.FeedStaticData{}, err
	}

	positionsByType := make(map[int64]string, len(envelope.ElementTypes))
	for _, item := range envelope.ElementTypes {
		positionsByType[item.ID] = strings.TrimSpace(item.SingularName)
	}

	teams := make([]usecase.FeedTeam, 0, len(envelope.Teams))
	for _, item := range envelope.Teams {
		teams = append(teams, usecase.FeedTeam{
			FeedID:    item.ID,
			Name:      strings.TrimSpace(item.Name),
			ShortName: strings.TrimSpace(item.ShortName),
		})
	}

	players := make([]usecase.FeedPlayer, 0, len(envelope.Elements))
	for _, item := range envelope.Elements {
		players = append(players, usecase.FeedPlayer{
			FeedID:          item.ID,
			TeamFeedID:      item.Team,
			FirstName:       strings.TrimSpace(item.FirstName),
			LastName:        strings.TrimSpace(item.SecondName),
			WebName:         strings.TrimSpace(item.WebName),
			Position:        positionsByType[item.ElementType],
			GoalsScored:     item.GoalsScored,
			Assists:         item.Assists,
			TotalPoints:     item.TotalPoints,
			Minutes:         item.Minutes,
			YellowCards:     item.YellowCards,
			RedCards:        item.RedCards,
			Cost:            float64(item.NowCost) / 10.0,
			Form:            parseFeedFloat(item.Form),
			ChanceOfPlaying: cloneIntPtr(item.ChanceOfPlayingNextRound),
			Status:          strings.TrimSpace(item.Status),
			News:            strings.TrimSpace(item.News),
		})
	}

	return usecase.FeedStaticData{Teams: teams, Players: players}, nil
}

func (c *Client) FetchFixtures(ctx context.Context) ([]usecase.FeedFixture, error) {
	var items []feedFixtureItem
	if err := c.doJSON(ctx, fixturesEndpoint, &items); err != nil {
		return nil, err
	}

	out := make([]usecase.FeedFixture, 0, len(items))
	for _, item := range items {
		gameweek := 0
		if item.Event != nil {
			gameweek = *item.Event
		}

		out = append(out, usecase.FeedFixture{
			FeedID:         item.ID,
			Gameweek:       gameweek,
			KickoffAt:      parseFeedKickoff(item.KickoffTime),
			HomeTeamFeedID: item.TeamH,
			AwayTeamFeedID: item.TeamA,
			HomeScore:      cloneIntPtr(item.TeamHScore),
			AwayScore:      cloneIntPtr(item.TeamAScore),
			Finished:       item.Finished,
			Started:        item.Started,
			Difficulty:     item.TeamHDifficulty,
		})
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "feed circuit breaker rejected request", "endpoint", path, "state", c.breaker.State())
			return &FetchError{Endpoint: path, Err: fmt.Errorf("%w: feed is temporarily unavailable", usecase.ErrDependencyUnavailable)}
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, status, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		if reqErr != nil {
			return nil, &FetchError{Endpoint: path, StatusCode: status, Err: reqErr}
		}
		return raw, nil
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return &FetchError{Endpoint: path, Err: fmt.Errorf("unexpected response payload type %T", out)}
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return &FetchError{Endpoint: path, Err: fmt.Errorf("decode feed payload: %w", err)}
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, int, error) {
	var lastErr error
	lastStatus := 0
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFeedTransient, err)
			lastStatus = 0
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
			_ = resp.Body.Close()
			lastStatus = resp.StatusCode
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errFeedTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, resp.StatusCode, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, resp.StatusCode, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.backoffUnit
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, lastStatus, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "feed request failed", "url", fullURL, "error", lastErr)
	return nil, lastStatus, lastErr
}

func isRetryableStatus(status int) bool {
	if status >= 500 {
		return true
	}
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	value := strings.TrimSpace(string(raw))
	if len(value) > 256 {
		return value[:256] + "..."
	}
	return value
}

func parseFeedFloat(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}

func parseFeedKickoff(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	utc := parsed.UTC()
	return &utc
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
