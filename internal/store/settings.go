package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/teamarr/teamarr/internal/model"
)

// Setting reads one settings value; def is returned when unset.
func (s *Store) Setting(key, def string) string {
	var v string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if err != nil {
		return def
	}
	return v
}

// SetSetting writes one settings value.
func (s *Store) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// Settings assembles the run-level settings snapshot from the settings
// table, with sane fallbacks for anything unset.
func (s *Store) Settings() model.Settings {
	set := model.Settings{
		Timezone:        s.Setting("timezone", "UTC"),
		DaysAhead:       settingInt(s, "days_ahead", 7),
		DefaultDuration: time.Duration(settingInt(s, "default_duration_minutes", 180)) * time.Minute,
		OutputPath:      s.Setting("output_path", "data/teamarr.xml"),
	}
	return set
}

func settingInt(s *Store, key string, def int) int {
	var v string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return def
	}
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
