package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/teamarr/teamarr/internal/model"
)

const templateCols = `id, name, type, title_format, subtitle_format, description_options,
	pregame_enabled, pregame_minutes, pregame_title, pregame_description,
	postgame_enabled, postgame_minutes, postgame_title, postgame_description,
	postgame_conditional, postgame_final_desc, postgame_not_final_desc,
	idle_enabled, idle_title, idle_description,
	idle_conditional, idle_final_desc, idle_not_final_desc,
	max_program_hours, game_duration_mode, custom_duration_minutes, midnight_crossover,
	categories, flags`

func scanTemplate(row interface{ Scan(...any) error }) (model.Template, error) {
	var t model.Template
	var descOpts, categories, flags string
	var pregameEnabled, postgameEnabled, postgameCond, idleEnabled, idleCond int
	err := row.Scan(
		&t.ID, &t.Name, &t.Type, &t.TitleFormat, &t.SubtitleFormat, &descOpts,
		&pregameEnabled, &t.PregameMinutes, &t.Pregame.Title, &t.Pregame.Description,
		&postgameEnabled, &t.PostgameMinutes, &t.Postgame.Title, &t.Postgame.Description,
		&postgameCond, &t.PostgameFinalDesc, &t.PostgameNotFinalDesc,
		&idleEnabled, &t.Idle.Title, &t.Idle.Description,
		&idleCond, &t.IdleFinalDesc, &t.IdleNotFinalDesc,
		&t.MaxProgramHours, &t.GameDurationMode, &t.CustomDurationMinutes, &t.MidnightCrossover,
		&categories, &flags,
	)
	if err != nil {
		return t, err
	}
	t.PregameEnabled = pregameEnabled != 0
	t.PostgameEnabled = postgameEnabled != 0
	t.PostgameConditional = postgameCond != 0
	t.IdleEnabled = idleEnabled != 0
	t.IdleConditional = idleCond != 0

	// JSON columns are tolerated when malformed; a bad column falls back
	// to its zero value rather than failing the whole load.
	if err := json.Unmarshal([]byte(descOpts), &t.DescriptionOptions); err != nil {
		t.DescriptionOptions = nil
	}
	sort.SliceStable(t.DescriptionOptions, func(i, j int) bool {
		return t.DescriptionOptions[i].Priority < t.DescriptionOptions[j].Priority
	})
	if err := json.Unmarshal([]byte(categories), &t.Categories); err != nil {
		t.Categories = nil
	}
	if err := json.Unmarshal([]byte(flags), &t.Flags); err != nil {
		t.Flags = nil
	}
	return t, nil
}

// Template fetches one template by id, falling back to the default
// template (id 1) when the id is unknown.
func (s *Store) Template(id int64) (model.Template, error) {
	row := s.db.QueryRow(`SELECT `+templateCols+` FROM templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows && id != 1 {
		return s.Template(1)
	}
	if err != nil {
		return model.Template{}, fmt.Errorf("template %d: %w", id, err)
	}
	return t, nil
}

// Templates lists all templates.
func (s *Store) Templates() ([]model.Template, error) {
	rows, err := s.db.Query(`SELECT ` + templateCols + ` FROM templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []model.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SaveTemplate inserts (ID == 0) or updates a template.
func (s *Store) SaveTemplate(t model.Template) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	descOpts, err := json.Marshal(t.DescriptionOptions)
	if err != nil {
		return 0, fmt.Errorf("marshal description options: %w", err)
	}
	categories, _ := json.Marshal(t.Categories)
	flags, _ := json.Marshal(t.Flags)

	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}

	args := []any{
		t.Name, string(t.Type), t.TitleFormat, t.SubtitleFormat, string(descOpts),
		b2i(t.PregameEnabled), t.PregameMinutes, t.Pregame.Title, t.Pregame.Description,
		b2i(t.PostgameEnabled), t.PostgameMinutes, t.Postgame.Title, t.Postgame.Description,
		b2i(t.PostgameConditional), t.PostgameFinalDesc, t.PostgameNotFinalDesc,
		b2i(t.IdleEnabled), t.Idle.Title, t.Idle.Description,
		b2i(t.IdleConditional), t.IdleFinalDesc, t.IdleNotFinalDesc,
		t.MaxProgramHours, string(t.GameDurationMode), t.CustomDurationMinutes, string(t.MidnightCrossover),
		string(categories), string(flags),
	}

	if t.ID == 0 {
		res, err := s.db.Exec(`INSERT INTO templates (
			name, type, title_format, subtitle_format, description_options,
			pregame_enabled, pregame_minutes, pregame_title, pregame_description,
			postgame_enabled, postgame_minutes, postgame_title, postgame_description,
			postgame_conditional, postgame_final_desc, postgame_not_final_desc,
			idle_enabled, idle_title, idle_description,
			idle_conditional, idle_final_desc, idle_not_final_desc,
			max_program_hours, game_duration_mode, custom_duration_minutes, midnight_crossover,
			categories, flags
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`, args...)
		if err != nil {
			return 0, fmt.Errorf("insert template: %w", err)
		}
		return res.LastInsertId()
	}

	args = append(args, t.ID)
	_, err = s.db.Exec(`UPDATE templates SET
		name = ?, type = ?, title_format = ?, subtitle_format = ?, description_options = ?,
		pregame_enabled = ?, pregame_minutes = ?, pregame_title = ?, pregame_description = ?,
		postgame_enabled = ?, postgame_minutes = ?, postgame_title = ?, postgame_description = ?,
		postgame_conditional = ?, postgame_final_desc = ?, postgame_not_final_desc = ?,
		idle_enabled = ?, idle_title = ?, idle_description = ?,
		idle_conditional = ?, idle_final_desc = ?, idle_not_final_desc = ?,
		max_program_hours = ?, game_duration_mode = ?, custom_duration_minutes = ?, midnight_crossover = ?,
		categories = ?, flags = ?
	WHERE id = ?`, args...)
	if err != nil {
		return 0, fmt.Errorf("update template: %w", err)
	}
	return t.ID, nil
}
