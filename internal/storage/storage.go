// Package storage keeps opaque values under string keys. The task store
// persists its whole collection as one value, so backends only need whole-value
// reads and writes.
package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Backend reads and writes whole values by key.
//
// Get returns a nil slice and a nil error when the key has never been written.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}

// Stamped is implemented by backends that record when a key was last written.
type Stamped interface {
	UpdatedAt(key string) (time.Time, error)
}

// Open returns the backend named by kind rooted at path. For sqlite the path is
// the database file, for json it is a directory; memory ignores it.
func Open(kind, path string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendSQLite:
		return OpenSQLite(path)
	case BackendJSON:
		return NewFileBackend(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected sqlite, json or memory)", ErrUnknownBackend, kind)
	}
}
