package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("auto migrating schema")
	return AutoMigrateAll(s.db)
}
