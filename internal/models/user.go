package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "ADMIN"
	RoleSubUser = "SUB_USER"
)

// User represents an application user. Admins manage the hierarchy,
// candidates and other users; sub-users only submit counts for their
// assigned centers.
type User struct {
	ID           string  `gorm:"type:uuid;primaryKey"`
	Username     string  `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string  `gorm:"size:255;not null"`
	Role         string  `gorm:"size:16;not null;default:SUB_USER"`
	Email        *string `gorm:"size:128"`
	Mobile       *string `gorm:"size:32"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	AssignedCenters []VoteCenter `gorm:"foreignKey:AssignedToUserID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
