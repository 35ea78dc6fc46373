// Package backup snapshots the durable dataset before every accepted
// overwrite, keeping a bounded window of restore points.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/refurbtrack/price-tracker/internal/types"
)

const (
	backupPrefix = "competitor_prices_backup_"
	backupSuffix = ".json"

	// DefaultRetention is how many backup files survive pruning.
	DefaultRetention = 5
)

// Info describes one backup file on disk.
type Info struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager writes timestamped dataset backups into a directory and prunes
// the oldest ones beyond the retention limit.
type Manager struct {
	dir       string
	retention int
	now       func() time.Time
	logger    zerolog.Logger
}

// NewManager returns a manager writing into dir. A retention below one
// falls back to the default.
func NewManager(dir string, retention int, logger zerolog.Logger) *Manager {
	if retention < 1 {
		retention = DefaultRetention
	}
	return &Manager{
		dir:       dir,
		retention: retention,
		now:       time.Now,
		logger:    logger.With().Str("component", "backup").Logger(),
	}
}

// Create writes a backup of data and prunes old backups. An empty dataset
// produces no backup and no error: with nothing persisted yet there is
// nothing worth protecting, and first runs must not fail here.
//
// Any write failure is returned to the caller, which must treat it as
// fatal for the pending update. Overwriting the only good copy without a
// backup is never acceptable.
func (m *Manager) Create(data types.Dataset) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	name := backupPrefix + m.now().Format("20060102_150405") + backupSuffix
	path := filepath.Join(m.dir, name)

	payload, err := json.MarshalIndent(data.Clone(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding backup: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("writing backup %s: %w", name, err)
	}

	m.logger.Info().Str("backup", name).Int("competitors", len(data)).Msg("backup created")

	if err := m.Prune(); err != nil {
		// The backup itself succeeded; a failed prune only means extra
		// files linger until the next run.
		m.logger.Warn().Err(err).Msg("backup prune failed")
	}
	return path, nil
}

// List returns all backups in the directory, oldest first. Backup names
// embed a sortable timestamp, so lexicographic order is chronological.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), backupPrefix) || !strings.HasSuffix(e.Name(), backupSuffix) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Name:      e.Name(),
			Path:      filepath.Join(m.dir, e.Name()),
			Size:      fi.Size(),
			CreatedAt: fi.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Prune deletes the oldest backups until at most the retention count
// remain. Files that do not match the backup naming pattern are never
// touched.
func (m *Manager) Prune() error {
	infos, err := m.List()
	if err != nil {
		return err
	}
	if len(infos) <= m.retention {
		return nil
	}

	for _, victim := range infos[:len(infos)-m.retention] {
		if err := os.Remove(victim.Path); err != nil {
			return fmt.Errorf("pruning backup %s: %w", victim.Name, err)
		}
		m.logger.Debug().Str("backup", victim.Name).Msg("old backup pruned")
	}
	return nil
}

// Restore loads the dataset from a named backup file. Used by operators
// after a bad run slipped through, never by the pipeline itself.
func (m *Manager) Restore(name string) (types.Dataset, error) {
	// A backup name is a bare filename inside the backup directory. A name
	// carrying path elements could resolve outside it.
	if name != filepath.Base(name) ||
		!strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
		return nil, fmt.Errorf("not a backup file: %s", name)
	}
	raw, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading backup %s: %w", name, err)
	}
	var data types.Dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding backup %s: %w", name, err)
	}
	return data, nil
}
