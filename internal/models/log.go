package models

import "time"

// AuditLog records mutating operations of authenticated users.
type AuditLog struct {
	ID        uint    `gorm:"primaryKey"`
	UserID    *string `gorm:"type:uuid;index"`
	Method    string  `gorm:"size:16"`
	Path      string  `gorm:"size:255"`
	Action    string  `gorm:"size:2048"`
	IP        string  `gorm:"size:64"`
	UserAgent string  `gorm:"size:255"`
	CreatedAt time.Time
}
