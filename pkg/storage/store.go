// Package storage provides the durable client-local key/value capability the
// submission pipeline writes the access credential into.
package storage

import (
	"errors"
	"sync"
)

const (
	// KeyAccessToken holds the credential issued on sign-in.
	KeyAccessToken = "accessToken"
	// KeyLoggedIn holds LoggedInValue once a sign-in succeeded.
	KeyLoggedIn = "isLoggedIn"
	// LoggedInValue is the literal stored under KeyLoggedIn.
	LoggedInValue = "true"
)

// ErrNotFound is returned by Get for missing keys.
var ErrNotFound = errors.New("storage: key not found")

// Store is a string key/value store. Put writes all entries in one atomic
// step.
type Store interface {
	Put(values map[string]string) error
	Get(key string) (string, error)
	Delete(keys ...string) error
	Close() error
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Put(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	m.writes++
	return nil
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *Memory) Close() error { return nil }

// Writes reports how many Put calls the store has served.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Snapshot returns a copy of the stored values.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
