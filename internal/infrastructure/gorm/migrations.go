package gormdb

import (
	"github.com/mirola777/order-capture-service/internal/infrastructure/gorm/migrations"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB, logger *zap.Logger) error {
	return migrations.Run(db, logger)
}
