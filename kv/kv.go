// Package kv is the opaque string key/value storage the registration
// stores persist into. It plays the role of a browser profile's local
// storage: whole values are written at once and the total size of all
// values is capped by a quota.
package kv

import (
	"sync"

	"github.com/pkg/errors"
)

// DefaultQuota matches the usual per-origin local storage allowance.
const DefaultQuota = 5 << 20

var ErrQuotaExceeded = errors.New("storage quota exceeded")

type Store interface {
	// Get returns the value stored under key; ok is false when the key
	// was never written.
	Get(key string) (value string, ok bool, err error)
	// Set replaces the value stored under key. On failure the previous
	// value is kept.
	Set(key, value string) error
}

// Memory is a process-local Store.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	quota  int
}

// NewMemory returns an empty store. A quota <= 0 disables the size check.
func NewMemory(quota int) *Memory {
	return &Memory{values: map[string]string{}, quota: quota}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		used := len(key) + len(value)
		for k, v := range m.values {
			if k != key {
				used += len(k) + len(v)
			}
		}
		if used > m.quota {
			return errors.Wrapf(ErrQuotaExceeded, "kv.set %s: %d > %d bytes", key, used, m.quota)
		}
	}

	m.values[key] = value
	return nil
}
