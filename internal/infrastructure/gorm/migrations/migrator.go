package migrations

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Migration struct {
	ID      string
	Migrate func(tx *gorm.DB) error
}

type MigrationRecord struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	MigrationID string `gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

var registry []Migration

func Register(m Migration) {
	registry = append(registry, m)
}

// Run applies, in ID order, every registered migration that has not been
// recorded yet. Each one runs in its own transaction.
func Run(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	pending := slices.SortedFunc(slices.Values(registry), func(a, b Migration) int {
		return cmp.Compare(a.ID, b.ID)
	})
	applied := 0
	for _, m := range pending {
		var count int64
		if err := db.Model(&MigrationRecord{}).Where("migration_id = ?", m.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("check migration %s: %w", m.ID, err)
		}
		if count > 0 {
			continue
		}

		logger.Info("running migration", zap.String("migration", m.ID))
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Migrate(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{MigrationID: m.ID}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", m.ID, err)
		}
		applied++
	}
	logger.Info("schema up to date", zap.Int("applied", applied), zap.Int("known", len(pending)))
	return nil
}
