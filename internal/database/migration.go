package database

import (
	"fmt"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models. Parents are
// listed before children so FK constraints resolve on first boot.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Division{},
		&models.District{},
		&models.Constituency{},
		&models.Upazila{},
		&models.Union{},
		&models.VoteCenter{},
		&models.Candidate{},
		&models.VoteEntry{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
