package store

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/mbolis/grace-register/kv"
)

// SchemaVersion tags every blob written by this package. Version 0 is
// the untagged bare JSON array written by the first browser-only
// release.
const SchemaVersion = 1

var (
	ErrPersist = errors.New("could not persist")
	// ErrNewerSchema marks a blob written by a later release. It is never
	// overwritten.
	ErrNewerSchema = errors.New("newer schema version")
	ErrUnreadable  = errors.New("stored data unreadable")
)

// PersistError reports a failed write of a whole collection. It matches
// ErrPersist and unwraps to the storage error, e.g. kv.ErrQuotaExceeded.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

func (e *PersistError) Is(target error) bool { return target == ErrPersist }

type envelope[T any] struct {
	SchemaVersion int `json:"schemaVersion"`
	Items         []T `json:"items"`
}

// decodeBlob parses a persisted collection, upgrading older schema
// versions in memory.
func decodeBlob[T any](raw string) ([]T, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, errors.Wrap(err, "schema 0")
		}
		return items, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.SchemaVersion > SchemaVersion {
		return nil, errors.Wrapf(ErrNewerSchema, "version %d", env.SchemaVersion)
	}
	return env.Items, nil
}

func encodeBlob[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(envelope[T]{SchemaVersion: SchemaVersion, Items: items})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func persist[T any](store kv.Store, key string, items []T) error {
	blob, err := encodeBlob(items)
	if err != nil {
		return &PersistError{Key: key, Err: err}
	}
	if err = store.Set(key, blob); err != nil {
		return &PersistError{Key: key, Err: err}
	}
	return nil
}
