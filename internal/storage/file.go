package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSlot keeps every slot in its own JSON file under a directory.
type FileSlot struct {
	dir string
	mu  sync.Mutex
}

// NewFileSlot creates the directory if needed and returns a file-backed slot store.
func NewFileSlot(dir string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileSlot{dir: dir}, nil
}

func (f *FileSlot) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

// Get returns the stored bytes, or ErrNotFound.
func (f *FileSlot) Get(name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", name, err)
	}
	return data, nil
}

// Set replaces the slot contents atomically, keeping one backup.
func (f *FileSlot) Set(name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// The previous contents stay in <name>.json.bak for hand recovery.
	if err := Backup(f.path(name)); err != nil {
		return fmt.Errorf("backup slot %q: %w", name, err)
	}
	if err := WriteAtomic(f.path(name), data); err != nil {
		return fmt.Errorf("write slot %q: %w", name, err)
	}
	return nil
}

// Remove deletes the slot. Removing a missing slot is a no-op.
func (f *FileSlot) Remove(name string) error {
	if err := validName(name); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove slot %q: %w", name, err)
	}
	return nil
}

func (f *FileSlot) Close() error { return nil }
