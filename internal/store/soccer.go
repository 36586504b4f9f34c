package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// SoccerLeague is one row of the soccer competition index.
type SoccerLeague struct {
	Slug      string
	Name      string
	Abbrev    string
	Tags      []string
	TeamCount int
}

// ReplaceSoccerLeague upserts a league row and rewrites its team
// membership in one transaction. Idempotent: re-running a refresh with
// the same data leaves the index unchanged.
func (s *Store) ReplaceSoccerLeague(l SoccerLeague, teamIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags, _ := json.Marshal(l.Tags)
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin soccer replace: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO soccer_leagues (slug, name, abbrev, tags, team_count, updated_at)
		 VALUES (?,?,?,?,?,?)
		 ON CONFLICT(slug) DO UPDATE SET
			name = excluded.name, abbrev = excluded.abbrev, tags = excluded.tags,
			team_count = excluded.team_count, updated_at = excluded.updated_at`,
		l.Slug, l.Name, l.Abbrev, string(tags), len(teamIDs), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert soccer league %s: %w", l.Slug, err)
	}

	if _, err := tx.Exec(`DELETE FROM soccer_team_leagues WHERE league_slug = ?`, l.Slug); err != nil {
		return fmt.Errorf("clear soccer league %s members: %w", l.Slug, err)
	}
	for _, id := range teamIDs {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO soccer_team_leagues (team_id, league_slug) VALUES (?, ?)`,
			id, l.Slug); err != nil {
			return fmt.Errorf("insert soccer membership %s/%s: %w", id, l.Slug, err)
		}
	}

	return tx.Commit()
}

// SoccerLeaguesForTeam answers the reverse lookup: every competition a
// team plays in, with the league's tags for filtering.
func (s *Store) SoccerLeaguesForTeam(teamID string) ([]SoccerLeague, error) {
	rows, err := s.db.Query(
		`SELECT l.slug, l.name, l.abbrev, l.tags, l.team_count
		 FROM soccer_team_leagues m
		 JOIN soccer_leagues l ON l.slug = m.league_slug
		 WHERE m.team_id = ?
		 ORDER BY l.slug`, teamID)
	if err != nil {
		return nil, fmt.Errorf("soccer leagues for team %s: %w", teamID, err)
	}
	defer rows.Close()

	var out []SoccerLeague
	for rows.Next() {
		var l SoccerLeague
		var tags string
		if err := rows.Scan(&l.Slug, &l.Name, &l.Abbrev, &tags, &l.TeamCount); err != nil {
			return nil, fmt.Errorf("scan soccer league: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &l.Tags); err != nil {
			l.Tags = nil
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SoccerCacheAge reports how long ago the index was last refreshed.
// ok is false when the index has never been built.
func (s *Store) SoccerCacheAge() (time.Duration, bool) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM soccer_cache_meta WHERE key = 'last_refresh'`).Scan(&v)
	if err != nil {
		return 0, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return 0, false
	}
	return time.Since(t), true
}

// TouchSoccerRefresh records a completed index refresh.
func (s *Store) TouchSoccerRefresh(at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO soccer_cache_meta (key, value) VALUES ('last_refresh', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		at.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("touch soccer refresh: %w", err)
	}
	return nil
}

// SoccerLeagueCount reports the number of indexed competitions.
func (s *Store) SoccerLeagueCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM soccer_leagues`).Scan(&n)
	return n, err
}
