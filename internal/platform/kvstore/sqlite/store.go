// Package sqlite stores the portal cache in a local SQLite file. The CLI uses
// it as its offline cache.
package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/telconova/portal/internal/platform/kvstore"
)

var (
	_ kvstore.Store  = (*Store)(nil)
	_ kvstore.Purger = (*Store)(nil)
)

const schema = `CREATE TABLE IF NOT EXISTS cache_entries (
	namespace  TEXT NOT NULL,
	entry_key  TEXT NOT NULL,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (namespace, entry_key)
)`

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", path)
	}
	// One connection keeps ":memory:" databases coherent and serializes
	// writers without relying on busy retries.
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=10000", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "prepare sqlite %s", path)
		}
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := kvstore.ValidateKey(namespace, key); err != nil {
		return nil, err
	}
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM cache_entries WHERE namespace = ? AND entry_key = ?`, namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kvstore.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s/%s", namespace, key)
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, namespace, key string, value []byte) error {
	if err := kvstore.ValidateKey(namespace, key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (namespace, entry_key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (namespace, entry_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		namespace, key, value, s.now().UnixNano(),
	)
	return errors.Wrapf(err, "put %s/%s", namespace, key)
}

func (s *Store) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, 0, len(keys)+1)
	args = append(args, namespace)
	for _, key := range keys {
		args = append(args, key)
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE namespace = ? AND entry_key IN (`+placeholders+`)`, args...)
	return errors.Wrapf(err, "delete %s", namespace)
}

func (s *Store) PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE namespace IN (
			SELECT namespace FROM cache_entries GROUP BY namespace HAVING MAX(updated_at) < ?
		)`, cutoff.UnixNano())
	if err != nil {
		return 0, errors.Wrap(err, "purge idle namespaces")
	}
	return res.RowsAffected()
}
