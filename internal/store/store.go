// Package store owns the durable dataset file. All reads and writes of
// competitor_prices.json go through here so atomicity and the
// missing-file-means-empty rule live in exactly one place.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/refurbtrack/price-tracker/internal/types"
	"github.com/refurbtrack/price-tracker/internal/validation"
)

// DefaultDataFile is the dataset filename inside the data directory.
const DefaultDataFile = "competitor_prices.json"

// Store reads and writes the single JSON dataset file.
type Store struct {
	path        string
	rejectedDir string
	now         func() time.Time
	logger      zerolog.Logger
}

// New returns a store over the dataset file at path. Rejected snapshots
// are written next to it under rejectedDir.
func New(path, rejectedDir string, logger zerolog.Logger) *Store {
	return &Store{
		path:        path,
		rejectedDir: rejectedDir,
		now:         time.Now,
		logger:      logger.With().Str("component", "store").Logger(),
	}
}

// Path returns the dataset file path.
func (s *Store) Path() string { return s.path }

// Load reads the dataset. A missing file is a normal first-run condition
// and yields an empty dataset; an unreadable or corrupt file does too,
// with a warning, because the pipeline must still be able to run and the
// corrupt file stays on disk for inspection until the next accepted save.
func (s *Store) Load() types.Dataset {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("dataset unreadable, starting empty")
		}
		return types.Dataset{}
	}

	var data types.Dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("dataset corrupt, starting empty")
		return types.Dataset{}
	}
	if data == nil {
		data = types.Dataset{}
	}
	return data
}

// Save writes the full dataset atomically: the payload goes to a temp
// file in the same directory, then replaces the dataset in one rename.
// Readers never observe a half-written file.
func (s *Store) Save(data types.Dataset) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".competitor_prices-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing dataset: %w", err)
	}
	return nil
}

// UpdateCompetitor replaces exactly one competitor's snapshot and
// persists the whole dataset. Every other key is reloaded from disk
// immediately before the write, so concurrent-in-spirit runs against
// different competitors cannot clobber each other's accepted data.
func (s *Store) UpdateCompetitor(name string, snap types.CompetitorSnapshot) error {
	data := s.Load()
	data[name] = snap
	if err := s.Save(data); err != nil {
		return fmt.Errorf("updating %s: %w", name, err)
	}
	s.logger.Info().Str("competitor", name).Int("products", snap.TotalProducts).Msg("dataset updated")
	return nil
}

// WriteRejected preserves a snapshot that failed validation in a side
// file for post-mortem review. The durable dataset is never touched.
func (s *Store) WriteRejected(snap types.CompetitorSnapshot, res validation.Result) (string, error) {
	if err := os.MkdirAll(s.rejectedDir, 0o755); err != nil {
		return "", fmt.Errorf("creating rejected directory: %w", err)
	}

	name := fmt.Sprintf("rejected_%s_%s.json", slug(snap.Competitor), s.now().Format("20060102_150405"))
	path := filepath.Join(s.rejectedDir, name)

	payload, err := json.MarshalIndent(struct {
		Validation validation.Result        `json:"validation"`
		Snapshot   types.CompetitorSnapshot `json:"snapshot"`
	}{res, snap}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding rejected snapshot: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("writing rejected snapshot: %w", err)
	}

	s.logger.Warn().
		Str("competitor", snap.Competitor).
		Str("file", name).
		Str("reason", res.Reason).
		Msg("snapshot rejected")
	return path, nil
}

func slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
