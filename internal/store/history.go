package store

import (
	"fmt"
	"time"
)

// HistoryRow summarizes one generation run.
type HistoryRow struct {
	ID          int64
	StartedAt   time.Time
	FinishedAt  time.Time
	NumChannels int
	NumPrograms int
	NumGames    int
	NumPregame  int
	NumPostgame int
	NumIdle     int
	NumErrors   int
	OutputPath  string
}

// RecordRun appends a generation history row.
func (s *Store) RecordRun(h HistoryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO epg_history (
			started_at, finished_at, duration_ms,
			num_channels, num_programs, num_games, num_pregame, num_postgame, num_idle,
			num_errors, output_path
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		h.StartedAt.UTC().Format(time.RFC3339),
		h.FinishedAt.UTC().Format(time.RFC3339),
		h.FinishedAt.Sub(h.StartedAt).Milliseconds(),
		h.NumChannels, h.NumPrograms, h.NumGames, h.NumPregame, h.NumPostgame, h.NumIdle,
		h.NumErrors, h.OutputPath)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentRuns lists the latest n history rows, newest first.
func (s *Store) RecentRuns(n int) ([]HistoryRow, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, finished_at,
			num_channels, num_programs, num_games, num_pregame, num_postgame, num_idle,
			num_errors, output_path
		 FROM epg_history ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		var started, finished string
		if err := rows.Scan(&h.ID, &started, &finished,
			&h.NumChannels, &h.NumPrograms, &h.NumGames, &h.NumPregame, &h.NumPostgame, &h.NumIdle,
			&h.NumErrors, &h.OutputPath); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.StartedAt, _ = time.Parse(time.RFC3339, started)
		h.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, h)
	}
	return out, rows.Err()
}
