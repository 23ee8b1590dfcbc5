// Package postgres stores the portal cache in PostgreSQL through GORM so that
// several API replicas share session state.
package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/telconova/portal/internal/platform/kvstore"
)

var (
	_ kvstore.Store  = (*Store)(nil)
	_ kvstore.Purger = (*Store)(nil)
)

// Store persists cache entries in the portal_cache_entries table.
type Store struct {
	db *gorm.DB
}

// NewStore wires a GORM-backed store. The schema is owned by the migrations
// package; the caller manages the DB lifecycle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// EntryRecord is one cached value.
type EntryRecord struct {
	Namespace string    `gorm:"primaryKey;column:namespace;size:128"`
	Key       string    `gorm:"primaryKey;column:entry_key;size:128"`
	Value     []byte    `gorm:"column:value;type:bytea;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (EntryRecord) TableName() string { return "portal_cache_entries" }

func (s *Store) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if err := kvstore.ValidateKey(namespace, key); err != nil {
		return nil, err
	}
	var record EntryRecord
	err := s.db.WithContext(ctx).First(&record, "namespace = ? AND entry_key = ?", namespace, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, kvstore.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s/%s", namespace, key)
	}
	return record.Value, nil
}

func (s *Store) Put(ctx context.Context, namespace, key string, value []byte) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if err := kvstore.ValidateKey(namespace, key); err != nil {
		return err
	}
	record := EntryRecord{Namespace: namespace, Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"value":      value,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
	return errors.Wrapf(err, "put %s/%s", namespace, key)
}

func (s *Store) Delete(ctx context.Context, namespace string, keys ...string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ANY(?)", namespace, pq.Array(keys)).
		Delete(&EntryRecord{}).Error
	return errors.Wrapf(err, "delete %s", namespace)
}

// PurgeIdle deletes every namespace whose newest entry predates cutoff.
func (s *Store) PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	db := s.db.WithContext(ctx)
	idle := db.Model(&EntryRecord{}).
		Select("namespace").
		Group("namespace").
		Having("MAX(updated_at) < ?", cutoff)
	result := db.Where("namespace IN (?)", idle).Delete(&EntryRecord{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "purge idle namespaces")
	}
	return result.RowsAffected, nil
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres cache store not configured")
	}
	return nil
}
