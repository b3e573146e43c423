package kv

import (
	"database/sql"

	"github.com/pkg/errors"
)

// SQLite keeps values in the kv table created by the database
// migrations.
type SQLite struct {
	db    *sql.DB
	quota int
}

func NewSQLite(db *sql.DB, quota int) *SQLite {
	return &SQLite{db: db, quota: quota}
}

func (s *SQLite) Get(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, errors.Wrap(err, "kv.get")
	}
	return value, true, nil
}

func (s *SQLite) Set(key, value string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "kv.set.begin_tx")
	}
	defer tx.Rollback()

	if s.quota > 0 {
		var others int
		err = tx.QueryRow(`
			SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0)
			FROM kv
			WHERE key <> ?`,
			key,
		).Scan(&others)
		if err != nil {
			return errors.Wrap(err, "kv.set.usage")
		}
		used := others + len(key) + len(value)
		if used > s.quota {
			return errors.Wrapf(ErrQuotaExceeded, "kv.set %s: %d > %d bytes", key, used, s.quota)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key,
		value,
	)
	if err != nil {
		return errors.Wrap(err, "kv.set.upsert")
	}

	return errors.Wrap(tx.Commit(), "kv.set.commit")
}
