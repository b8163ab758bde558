package poller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// SeenStore persists last-seen markers for one user. The Redis-backed store in
// infrastructure/db/redis satisfies it for state shared across devices.
type SeenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Flusher is implemented by stores that buffer writes.
type Flusher interface {
	Flush() error
}

// MemoryStore keeps markers for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

// stateFile is the on-disk layout of the client-local state file. Several
// identities may share one file.
type stateFile struct {
	Users map[string]map[string]string `yaml:"users"`
}

// FileStore keeps markers for one user in a YAML state file. Writes are held
// in memory until Flush.
type FileStore struct {
	path   string
	userID string

	mu    sync.Mutex
	state stateFile
	dirty bool
}

// OpenFileStore loads path, treating a missing file as empty state.
func OpenFileStore(path, userID string) (*FileStore, error) {
	fs := &FileStore{path: path, userID: userID, state: stateFile{Users: map[string]map[string]string{}}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fs, nil
	case err != nil:
		return nil, fmt.Errorf("read state file: %w", err)
	}

	if err := yaml.Unmarshal(data, &fs.state); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", path, err)
	}
	if fs.state.Users == nil {
		fs.state.Users = map[string]map[string]string{}
	}
	return fs, nil
}

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.state.Users[f.userID][key]
	return v, ok, nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := f.state.Users[f.userID]
	if values == nil {
		values = map[string]string{}
		f.state.Users[f.userID] = values
	}
	if values[key] != value {
		values[key] = value
		f.dirty = true
	}
	return nil
}

// Flush writes the state file if anything changed since the last flush.
func (f *FileStore) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := yaml.Marshal(&f.state)
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	f.dirty = false
	return nil
}
