package database

import (
	"fmt"
	"log"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/config"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedInitialAdmin creates the bootstrap admin account when no admin
// exists yet. Without it a fresh deployment has no way to sign in.
func SeedInitialAdmin(db *gorm.DB, cfg config.SeedConfig, bcryptCost int) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	if cfg.AdminPassword == "" {
		return fmt.Errorf("no admin exists and seed.admin_password is not set")
	}
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Printf("seeded initial admin user %q", cfg.AdminUsername)
	return nil
}
