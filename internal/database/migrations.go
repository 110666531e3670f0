package database

import (
	"errors"
	"time"

	"github.com/WreckedIT/MoveMate/internal/inventory"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationNormalizeLegacyStatusValues = "2026-08-22_normalize_legacy_status_values"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationNormalizeLegacyStatusValues, apply: normalizeLegacyStatusValues},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// normalizeLegacyStatusValues rewrites box rows persisted before status
// coercion was centralized, so every stored status is one of the six
// lifecycle values.
func normalizeLegacyStatusValues(db *gorm.DB) error {
	return db.Model(&inventory.BoxRecord{}).
		Where("status IS NULL OR status NOT IN ?", inventory.StatusValues()).
		Update("status", string(inventory.StatusPacked)).Error
}
