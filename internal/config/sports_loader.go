package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SportDefaults is the per-sport metadata block from sports.yaml.
type SportDefaults struct {
	DurationMinutes int `yaml:"duration_minutes"`
}

// Sports carries sport duration defaults and the national broadcast
// network list used by the is_national_broadcast predicate.
type Sports struct {
	Sports           map[string]SportDefaults `yaml:"sports"`
	NationalNetworks []string                 `yaml:"national_networks"`
}

// hardcoded fallback when no config file is present.
var defaultSports = Sports{
	Sports: map[string]SportDefaults{
		"nfl":    {DurationMinutes: 210},
		"nba":    {DurationMinutes: 150},
		"nhl":    {DurationMinutes: 150},
		"mlb":    {DurationMinutes: 210},
		"wnba":   {DurationMinutes: 150},
		"soccer": {DurationMinutes: 120},
		"ncaaf":  {DurationMinutes: 210},
		"ncaab":  {DurationMinutes: 150},
	},
	NationalNetworks: []string{
		"ABC", "CBS", "NBC", "FOX", "ESPN", "ESPN2", "ESPNU", "TNT", "TBS",
		"FS1", "FS2", "Amazon Prime Video", "Prime Video", "Peacock",
		"Apple TV+", "NFL Network", "NBA TV", "MLB Network", "NHL Network",
	},
}

// LoadSports reads sports.yaml. A missing file falls back to the
// hardcoded defaults; a malformed file is an error.
func LoadSports(path string) (Sports, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSports, nil
		}
		return Sports{}, fmt.Errorf("read sports config: %w", err)
	}

	var s Sports
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Sports{}, fmt.Errorf("parse sports config: %w", err)
	}
	if len(s.Sports) == 0 {
		s.Sports = defaultSports.Sports
	}
	if len(s.NationalNetworks) == 0 {
		s.NationalNetworks = defaultSports.NationalNetworks
	}
	return s, nil
}

// Duration returns the default game duration for a sport key
// ("nfl", "soccer", ...). Unknown sports get 3 hours.
func (s Sports) Duration(sport string) time.Duration {
	if d, ok := s.Sports[sport]; ok && d.DurationMinutes > 0 {
		return time.Duration(d.DurationMinutes) * time.Minute
	}
	return 3 * time.Hour
}

// IsNationalNetwork reports whether a broadcast display name is on the
// national network list. Matching is case-insensitive and exact.
func (s Sports) IsNationalNetwork(name string) bool {
	for _, n := range s.NationalNetworks {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
