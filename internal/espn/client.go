package espn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/teamarr/teamarr/internal/telemetry"
)

const (
	defaultSiteURL = "https://site.api.espn.com/apis/site/v2/sports"
	defaultCoreURL = "https://sports.core.api.espn.com/v2/sports"

	retryCount   = 3
	retryBase    = time.Second
	requestLimit = 10 * time.Second
)

// ErrUnavailable is returned after an endpoint exhausts its retries.
// Callers treat it as "no data" and continue.
var ErrUnavailable = errors.New("espn: upstream unavailable")

// Client is the low-level ESPN HTTP client. One instance is shared
// process-wide; the transport pool is sized for the orchestrator's peak
// fan-out (soccer refresh runs 50+ concurrent calls against one host).
type Client struct {
	siteURL    string
	coreURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option tweaks client construction. Used by tests to point at httptest
// servers and drop the backoff delay.
type Option func(*Client)

func WithSiteURL(u string) Option { return func(c *Client) { c.siteURL = u } }
func WithCoreURL(u string) Option { return func(c *Client) { c.coreURL = u } }
func WithRateLimit(l rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(l, burst) }
}

func NewClient(opts ...Option) *Client {
	transport := &http.Transport{
		MaxIdleConns:        128,
		MaxIdleConnsPerHost: 32,
		MaxConnsPerHost:     128,
		IdleConnTimeout:     90 * time.Second,
	}
	c := &Client{
		siteURL: defaultSiteURL,
		coreURL: defaultCoreURL,
		httpClient: &http.Client{
			Timeout:   requestLimit,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(40), 40),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches a URL with retry. Transient failures (connection errors,
// timeouts, 5xx, 429) are retried up to retryCount attempts with backoff
// retryBase×attempt (1s, 2s, 3s). Other 4xx fail immediately.
func (c *Client) get(ctx context.Context, rawurl string, params url.Values) ([]byte, error) {
	if len(params) > 0 {
		rawurl += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= retryCount; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		body, status, err := c.doOnce(ctx, rawurl)
		switch {
		case err == nil && status == http.StatusOK:
			return body, nil
		case err == nil && status >= 400 && status < 500 && status != http.StatusTooManyRequests:
			telemetry.Warnf("espn: HTTP %d for %s", status, rawurl)
			return nil, ErrUnavailable
		case err != nil:
			lastErr = err
		default:
			lastErr = fmt.Errorf("HTTP %d", status)
		}

		telemetry.Metrics.UpstreamRetries.Inc()
		if attempt < retryCount {
			select {
			case <-time.After(retryBase * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	telemetry.Metrics.UpstreamFailures.Inc()
	telemetry.Warnf("espn: giving up on %s: %v", rawurl, lastErr)
	return nil, ErrUnavailable
}

func (c *Client) doOnce(ctx context.Context, rawurl string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	telemetry.Metrics.UpstreamRequests.Inc()
	telemetry.Metrics.FetchLatency.Record(time.Since(start))
	telemetry.Debugf("espn: GET %s -> %d (%s)", rawurl, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	return body, resp.StatusCode, nil
}

func decode[T any](data []byte) (*T, error) {
	var doc T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("espn: decode: %w", err)
	}
	return &doc, nil
}

// Scoreboard fetches all games for a league on a date (YYYYMMDD in the
// provider's convention). College leagues get their groups parameter so
// the full division is returned.
func (c *Client) Scoreboard(ctx context.Context, league string, date time.Time) (*ScoreboardDoc, error) {
	sport, espnLeague := SportLeague(league)
	params := url.Values{"dates": {date.Format("20060102")}}
	if g, ok := collegeScoreboardGroups[league]; ok {
		params.Set("groups", g)
	}
	body, err := c.get(ctx, fmt.Sprintf("%s/%s/%s/scoreboard", c.siteURL, sport, espnLeague), params)
	if err != nil {
		return nil, err
	}
	return decode[ScoreboardDoc](body)
}

// TeamSchedule fetches a team's schedule (30+ days of look-ahead).
func (c *Client) TeamSchedule(ctx context.Context, league, teamID string) (*ScheduleDoc, error) {
	sport, espnLeague := SportLeague(league)
	body, err := c.get(ctx, fmt.Sprintf("%s/%s/%s/teams/%s/schedule", c.siteURL, sport, espnLeague, teamID), nil)
	if err != nil {
		return nil, err
	}
	return decode[ScheduleDoc](body)
}

// Team fetches identity, standings, and record splits for a team.
func (c *Client) Team(ctx context.Context, league, teamID string) (*TeamDoc, error) {
	sport, espnLeague := SportLeague(league)
	body, err := c.get(ctx, fmt.Sprintf("%s/%s/%s/teams/%s", c.siteURL, sport, espnLeague, teamID), nil)
	if err != nil {
		return nil, err
	}
	return decode[TeamDoc](body)
}

// Summary fetches a single event, used to refresh recently completed games.
func (c *Client) Summary(ctx context.Context, league, eventID string) (*SummaryDoc, error) {
	sport, espnLeague := SportLeague(league)
	body, err := c.get(ctx, fmt.Sprintf("%s/%s/%s/summary", c.siteURL, sport, espnLeague), url.Values{"event": {eventID}})
	if err != nil {
		return nil, err
	}
	return decode[SummaryDoc](body)
}

// Roster fetches a team roster; only the head coach is consumed.
func (c *Client) Roster(ctx context.Context, league, teamID string) (*RosterDoc, error) {
	sport, espnLeague := SportLeague(league)
	body, err := c.get(ctx, fmt.Sprintf("%s/%s/%s/teams/%s/roster", c.siteURL, sport, espnLeague, teamID), nil)
	if err != nil {
		return nil, err
	}
	return decode[RosterDoc](body)
}

// Group fetches conference/division metadata by group id.
func (c *Client) Group(ctx context.Context, league, groupID string) (*GroupDoc, error) {
	sport, espnLeague := SportLeague(league)
	body, err := c.get(ctx, fmt.Sprintf("%s/%s/%s/groups/%s", c.coreURL, sport, espnLeague, groupID), nil)
	if err != nil {
		return nil, err
	}
	return decode[GroupDoc](body)
}

// Leaders fetches season player leaders from the Core API host.
// Only basketball leagues expose this endpoint.
func (c *Client) Leaders(ctx context.Context, league string, season int, teamID string) (*LeadersDoc, error) {
	sport, espnLeague := SportLeague(league)
	u := fmt.Sprintf("%s/%s/leagues/%s/seasons/%d/types/2/teams/%s/leaders",
		c.coreURL, sport, espnLeague, season, teamID)
	body, err := c.get(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	return decode[LeadersDoc](body)
}

// SoccerLeagues lists every soccer competition the provider serves.
// Feeds the Tier-S cache crawl (~244 leagues).
func (c *Client) SoccerLeagues(ctx context.Context) (*SoccerLeaguesDoc, error) {
	body, err := c.get(ctx, c.coreURL+"/soccer/leagues", url.Values{"limit": {"300"}})
	if err != nil {
		return nil, err
	}
	return decode[SoccerLeaguesDoc](body)
}

// LeagueTeams lists the teams of one soccer competition.
func (c *Client) LeagueTeams(ctx context.Context, slug string) (*LeagueTeamsDoc, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/soccer/%s/teams", c.siteURL, slug), nil)
	if err != nil {
		return nil, err
	}
	return decode[LeagueTeamsDoc](body)
}
