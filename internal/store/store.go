// Package store persists Teamarr's durable state in a single SQLite
// database: configured teams, templates, settings, the soccer league
// reverse index, stream fingerprints, and generation history.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/teamarr/teamarr/internal/telemetry"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle. A single connection is used; SQLite
// serializes writers anyway and one connection sidesteps busy errors.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS teams (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			provider         TEXT    NOT NULL DEFAULT 'espn',
			provider_team_id TEXT    NOT NULL,
			league           TEXT    NOT NULL,
			name             TEXT    NOT NULL,
			abbrev           TEXT,
			logo_url         TEXT,
			template_id      INTEGER NOT NULL DEFAULT 1,
			active           INTEGER NOT NULL DEFAULT 1,
			UNIQUE(provider, provider_team_id, league)
		)`,
		`CREATE TABLE IF NOT EXISTS templates (
			id                      INTEGER PRIMARY KEY AUTOINCREMENT,
			name                    TEXT    NOT NULL,
			type                    TEXT    NOT NULL DEFAULT 'team',
			title_format            TEXT    NOT NULL DEFAULT '{away_team} @ {home_team}',
			subtitle_format         TEXT    NOT NULL DEFAULT '',
			description_options     TEXT    NOT NULL DEFAULT '[]',
			pregame_enabled         INTEGER NOT NULL DEFAULT 1,
			pregame_minutes         INTEGER NOT NULL DEFAULT 30,
			pregame_title           TEXT    NOT NULL DEFAULT '{team_name} Pregame',
			pregame_description     TEXT    NOT NULL DEFAULT '',
			postgame_enabled        INTEGER NOT NULL DEFAULT 1,
			postgame_minutes        INTEGER NOT NULL DEFAULT 30,
			postgame_title          TEXT    NOT NULL DEFAULT '{team_name} Postgame',
			postgame_description    TEXT    NOT NULL DEFAULT '',
			postgame_conditional    INTEGER NOT NULL DEFAULT 0,
			postgame_final_desc     TEXT    NOT NULL DEFAULT '',
			postgame_not_final_desc TEXT    NOT NULL DEFAULT '',
			idle_enabled            INTEGER NOT NULL DEFAULT 1,
			idle_title              TEXT    NOT NULL DEFAULT '{team_name} Programming',
			idle_description        TEXT    NOT NULL DEFAULT '',
			idle_conditional        INTEGER NOT NULL DEFAULT 0,
			idle_final_desc         TEXT    NOT NULL DEFAULT '',
			idle_not_final_desc     TEXT    NOT NULL DEFAULT '',
			max_program_hours       INTEGER NOT NULL DEFAULT 4,
			game_duration_mode      TEXT    NOT NULL DEFAULT 'sport',
			custom_duration_minutes INTEGER NOT NULL DEFAULT 180,
			midnight_crossover      TEXT    NOT NULL DEFAULT 'postgame',
			categories              TEXT    NOT NULL DEFAULT '["Sports"]',
			flags                   TEXT    NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS soccer_leagues (
			slug       TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			abbrev     TEXT,
			tags       TEXT NOT NULL DEFAULT '[]',
			team_count INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS soccer_team_leagues (
			team_id     TEXT NOT NULL,
			league_slug TEXT NOT NULL,
			PRIMARY KEY (team_id, league_slug)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stl_team ON soccer_team_leagues(team_id)`,
		`CREATE TABLE IF NOT EXISTS soccer_cache_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS stream_fingerprints (
			fingerprint          TEXT PRIMARY KEY,
			channel_id           TEXT NOT NULL,
			last_seen_generation INTEGER NOT NULL,
			created_at           TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS epg_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at    TEXT    NOT NULL,
			finished_at   TEXT    NOT NULL,
			duration_ms   INTEGER NOT NULL,
			num_channels  INTEGER NOT NULL,
			num_programs  INTEGER NOT NULL,
			num_games     INTEGER NOT NULL,
			num_pregame   INTEGER NOT NULL,
			num_postgame  INTEGER NOT NULL,
			num_idle      INTEGER NOT NULL,
			num_errors    INTEGER NOT NULL,
			output_path   TEXT    NOT NULL
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema (%s): %w", stmt, err)
		}
	}

	s := &Store{db: db}
	if err := s.seedDefaults(); err != nil {
		db.Close()
		return nil, err
	}

	var teams, templates int
	db.QueryRow(`SELECT COUNT(*) FROM teams`).Scan(&teams)
	db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&templates)
	telemetry.Infof("Opened store  path=%s  teams=%d  templates=%d", path, teams, templates)

	return s, nil
}

// seedDefaults inserts the default template and seeds the timezone
// setting from the TZ environment variable on first run.
func (s *Store) seedDefaults() error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&n); err != nil {
		return fmt.Errorf("count templates: %w", err)
	}
	if n == 0 {
		if _, err := s.db.Exec(`INSERT INTO templates (name) VALUES ('Default')`); err != nil {
			return fmt.Errorf("seed default template: %w", err)
		}
	}

	var tz string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = 'timezone'`).Scan(&tz)
	if err == sql.ErrNoRows {
		tz = os.Getenv("TZ")
		if tz == "" {
			tz = "UTC"
		}
		if _, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES ('timezone', ?)`, tz); err != nil {
			return fmt.Errorf("seed timezone: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("read timezone: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
