package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Slot.Get when nothing is stored under a name.
var ErrNotFound = errors.New("slot not found")

// Slot is a named blob store. Each name holds one opaque value; writes
// replace the previous value wholesale.
type Slot interface {
	Get(name string) ([]byte, error)
	Set(name string, data []byte) error
	Remove(name string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the slot store for backend rooted at dir.
func Open(backend, dir string) (Slot, error) {
	switch strings.ToLower(backend) {
	case "", BackendJSON:
		return NewFileSlot(dir)
	case BackendSQLite:
		return OpenSQLiteSlot(dir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

func validName(name string) error {
	if name == "" {
		return errors.New("slot name is required")
	}
	if strings.ContainsAny(name, `/\:`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid slot name %q", name)
	}
	return nil
}
