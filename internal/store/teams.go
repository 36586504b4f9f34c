package store

import (
	"fmt"

	"github.com/teamarr/teamarr/internal/model"
)

const teamCols = `id, provider, provider_team_id, league, name, abbrev, logo_url, template_id, active`

func scanTeam(row interface{ Scan(...any) error }) (model.Team, error) {
	var t model.Team
	var active int
	err := row.Scan(&t.ID, &t.Provider, &t.ProviderTeamID, &t.League, &t.Name,
		&t.Abbrev, &t.LogoURL, &t.TemplateID, &active)
	t.Active = active != 0
	return t, err
}

// ActiveTeams lists the teams included in generation runs.
func (s *Store) ActiveTeams() ([]model.Team, error) {
	rows, err := s.db.Query(`SELECT ` + teamCols + ` FROM teams WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var out []model.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Team fetches one team by row id.
func (s *Store) Team(id int64) (model.Team, error) {
	row := s.db.QueryRow(`SELECT `+teamCols+` FROM teams WHERE id = ?`, id)
	t, err := scanTeam(row)
	if err != nil {
		return model.Team{}, fmt.Errorf("team %d: %w", id, err)
	}
	return t, nil
}

// AddTeam inserts a team, returning the row id. The (provider, team,
// league) triple is unique; re-adding an existing team is an error.
func (s *Store) AddTeam(t model.Team) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := 0
	if t.Active {
		active = 1
	}
	res, err := s.db.Exec(
		`INSERT INTO teams (provider, provider_team_id, league, name, abbrev, logo_url, template_id, active)
		 VALUES (?,?,?,?,?,?,?,?)`,
		t.Provider, t.ProviderTeamID, t.League, t.Name, t.Abbrev, t.LogoURL, t.TemplateID, active)
	if err != nil {
		return 0, fmt.Errorf("add team: %w", err)
	}
	return res.LastInsertId()
}

// SetTeamActive toggles a team in or out of generation runs.
func (s *Store) SetTeamActive(id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := 0
	if active {
		v = 1
	}
	_, err := s.db.Exec(`UPDATE teams SET active = ? WHERE id = ?`, v, id)
	if err != nil {
		return fmt.Errorf("set team active: %w", err)
	}
	return nil
}

// RemoveTeam deletes a team.
func (s *Store) RemoveTeam(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM teams WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove team: %w", err)
	}
	return nil
}
