// Package storage archives the reduced text of every fetched listing
// page so a rejected or suspicious scrape can be reviewed after the fact.
package storage

import (
	"context"
	"time"
)

// FileInfo describes one archived file.
type FileInfo struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	Checksum   string    `json:"checksum"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Storage is the archive backend. The only implementation today is the
// local filesystem; the interface keeps object stores possible.
type Storage interface {
	Put(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}
