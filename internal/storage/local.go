package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage implements Storage on the local filesystem.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates filesystem storage rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// checksumSuffix marks the integrity sidecar written next to every
// stored file.
const checksumSuffix = ".sha256"

// Put stores content at key, creating parent directories as needed. A
// sidecar file records the content's SHA-256 so later reads can detect
// on-disk corruption.
func (s *LocalStorage) Put(ctx context.Context, key string, content []byte) error {
	path := s.keyToPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", key, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.WriteFile(path+checksumSuffix, []byte(ComputeChecksum(content)), 0o644); err != nil {
		return fmt.Errorf("writing checksum for %s: %w", key, err)
	}
	return nil
}

// Get retrieves content stored at key, verifying it against the recorded
// checksum when one exists.
func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	path := s.keyToPath(key)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("not found: %s", key)
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	if want, err := os.ReadFile(path + checksumSuffix); err == nil {
		if got := ComputeChecksum(content); got != string(want) {
			return nil, fmt.Errorf("checksum mismatch for %s: stored %s, computed %s", key, want, got)
		}
	}
	return content, nil
}

// Exists reports whether a file is stored at key.
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.keyToPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return true, nil
}

// List returns all keys under the given prefix, in walk order.
func (s *LocalStorage) List(ctx context.Context, prefix string) ([]string, error) {
	root := s.keyToPath(prefix)
	if stat, err := os.Stat(root); err != nil || !stat.IsDir() {
		root = filepath.Dir(root)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			return nil, nil
		}
	}

	var keys []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || strings.HasSuffix(path, checksumSuffix) {
			return nil
		}
		key := s.pathToKey(path)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", prefix, err)
	}
	return keys, nil
}

// Delete removes the file at key and its checksum sidecar. Deleting a
// missing key is not an error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	path := s.keyToPath(key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	if err := os.Remove(path + checksumSuffix); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting checksum for %s: %w", key, err)
	}
	return nil
}

// BasePath returns the storage root.
func (s *LocalStorage) BasePath() string { return s.basePath }

// keyToPath maps a key to a filesystem path, stripping traversal.
func (s *LocalStorage) keyToPath(key string) string {
	clean := filepath.Clean(key)
	clean = strings.TrimPrefix(clean, "/")
	for strings.HasPrefix(clean, "../") {
		clean = strings.TrimPrefix(clean, "../")
	}
	return filepath.Join(s.basePath, clean)
}

func (s *LocalStorage) pathToKey(path string) string {
	rel, err := filepath.Rel(s.basePath, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// ComputeChecksum returns the hex SHA-256 of content.
func ComputeChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// PageKey builds the archive key for one fetched listing page:
// archives/<competitor>/<date>/page_<n>.txt
func PageKey(competitor string, date time.Time, page int) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(competitor), " ", "_"))
	return fmt.Sprintf("archives/%s/%s/page_%03d.txt", slug, date.Format("2006-01-02"), page)
}
