// Package sportsdb is the auxiliary TheSportsDB client. It is used only
// for the soccer cross-reference: a TSDB team record carries the ESPN
// team id in an explicit field, which is the one sanctioned bridge
// between the two providers' id spaces.
package sportsdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/teamarr/teamarr/internal/telemetry"
)

const (
	defaultBaseURL = "https://www.thesportsdb.com/api/v1/json"
	freeAPIKey     = "3" // TheSportsDB's public test key
)

// ErrNotFound is returned when a team name matches nothing.
var ErrNotFound = errors.New("sportsdb: team not found")

// TeamDoc is one TSDB team record. IDESPN is the cross-reference field.
type TeamDoc struct {
	ID        string `json:"idTeam"`
	IDESPN    string `json:"idESPN"`
	Name      string `json:"strTeam"`
	AltNames  string `json:"strTeamAlternate"`
	League    string `json:"strLeague"`
	Sport     string `json:"strSport"`
	Badge     string `json:"strBadge"`
	Country   string `json:"strCountry"`
	Formed    string `json:"intFormedYear"`
	Stadium   string `json:"strStadium"`
}

type searchDoc struct {
	Teams []TeamDoc `json:"teams"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }
func WithAPIKey(k string) Option  { return func(c *Client) { c.apiKey = k } }

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     freeAPIKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TeamByName searches TSDB for a team. The query is tried as given,
// then through alias normalization; soccer results are preferred when
// the search is ambiguous across sports.
func (c *Client) TeamByName(ctx context.Context, name string) (*TeamDoc, error) {
	doc, err := c.search(ctx, name)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	normalized := NormalizeName(name)
	if normalized == "" || normalized == name {
		return nil, ErrNotFound
	}
	return c.search(ctx, normalized)
}

func (c *Client) search(ctx context.Context, name string) (*TeamDoc, error) {
	u := fmt.Sprintf("%s/%s/searchteams.php?t=%s", c.baseURL, c.apiKey, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sportsdb search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		telemetry.Warnf("sportsdb: HTTP %d searching %q", resp.StatusCode, name)
		return nil, ErrNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var doc searchDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("sportsdb decode: %w", err)
	}
	if len(doc.Teams) == 0 {
		return nil, ErrNotFound
	}

	// Prefer the soccer entry when a name collides across sports.
	for i := range doc.Teams {
		if doc.Teams[i].Sport == "Soccer" {
			return &doc.Teams[i], nil
		}
	}
	return &doc.Teams[0], nil
}

// ESPNTeamID resolves a soccer team name straight to its ESPN id.
// Empty when TSDB has no cross-reference for the team.
func (c *Client) ESPNTeamID(ctx context.Context, name string) (string, error) {
	doc, err := c.TeamByName(ctx, name)
	if err != nil {
		return "", err
	}
	return doc.IDESPN, nil
}
