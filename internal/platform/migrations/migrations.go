package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema of the shared session cache.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&cacheEntryRecord{})
}

// cacheEntryRecord mirrors the postgres kvstore adapter.
type cacheEntryRecord struct {
	Namespace string    `gorm:"primaryKey;column:namespace;size:128"`
	Key       string    `gorm:"primaryKey;column:entry_key;size:128"`
	Value     []byte    `gorm:"column:value;type:bytea;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (cacheEntryRecord) TableName() string { return "portal_cache_entries" }
