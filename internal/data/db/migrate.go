package db

import (
	"gorm.io/gorm"

	"github.com/datium-labs/dspm-analyzer/internal/domain"
)

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}

func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&domain.DataObject{},
		&domain.ObjectProfile{},
		&domain.PseudonymizationGuard{},
	)
}
