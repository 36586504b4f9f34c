package store

import (
	"fmt"
	"time"
)

// MarkFingerprintSeen records that a stream fingerprint appeared in the
// given generation, inserting it on first sight.
func (s *Store) MarkFingerprintSeen(fingerprint, channelID string, generation int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO stream_fingerprints (fingerprint, channel_id, last_seen_generation, created_at)
		 VALUES (?,?,?,?)
		 ON CONFLICT(fingerprint) DO UPDATE SET
			channel_id = excluded.channel_id,
			last_seen_generation = excluded.last_seen_generation`,
		fingerprint, channelID, generation, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("mark fingerprint: %w", err)
	}
	return nil
}

// PurgeStaleFingerprints drops fingerprints not seen for keepRuns
// generations and returns how many were removed.
func (s *Store) PurgeStaleFingerprints(currentGeneration, keepRuns int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`DELETE FROM stream_fingerprints WHERE last_seen_generation < ?`,
		currentGeneration-keepRuns)
	if err != nil {
		return 0, fmt.Errorf("purge fingerprints: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// FingerprintGeneration reads the monotonic generation counter.
func (s *Store) FingerprintGeneration() int64 {
	var v string
	if err := s.db.QueryRow(`SELECT value FROM settings WHERE key = 'fingerprint_generation'`).Scan(&v); err != nil {
		return 0
	}
	var n int64
	fmt.Sscanf(v, "%d", &n)
	return n
}

// NextFingerprintGeneration bumps and returns the generation counter.
// Called once at the start of every generation run.
func (s *Store) NextFingerprintGeneration() (int64, error) {
	n := s.FingerprintGeneration() + 1
	if err := s.SetSetting("fingerprint_generation", fmt.Sprintf("%d", n)); err != nil {
		return 0, err
	}
	return n, nil
}
