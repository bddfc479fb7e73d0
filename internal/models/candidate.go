package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScopeLevel tags the hierarchy level a candidate is eligible at.
// A national candidate appears in every rollup; a scoped candidate only
// within the named division/district/upazila/union. Exactly one level is
// active at a time (ScopeID is nil only for national).
type ScopeLevel string

const (
	ScopeNational ScopeLevel = "national"
	ScopeDivision ScopeLevel = "division"
	ScopeDistrict ScopeLevel = "district"
	ScopeUpazila  ScopeLevel = "upazila"
	ScopeUnion    ScopeLevel = "union"
)

// Valid reports whether the level is one of the known scope tags.
func (s ScopeLevel) Valid() bool {
	switch s {
	case ScopeNational, ScopeDivision, ScopeDistrict, ScopeUpazila, ScopeUnion:
		return true
	}
	return false
}

// Candidate is a person receiving votes. Party is a free-text label; there
// is no canonical party registry. ConstituencyID names the parliamentary
// seat the candidate contests and is used only by seat computation; it is
// independent of the eligibility scope.
type Candidate struct {
	ID             string     `gorm:"type:uuid;primaryKey"`
	Name           string     `gorm:"size:128;not null"`
	Party          string     `gorm:"size:128;not null"`
	Symbol         *string    `gorm:"size:64"`
	SeatNumber     *string    `gorm:"size:64"` // display label, e.g. "Dhaka-7"
	ConstituencyID *string    `gorm:"type:uuid;index"`
	ScopeLevel     ScopeLevel `gorm:"size:16;not null;default:national"`
	ScopeID        *string    `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Constituency *Constituency `gorm:"constraint:OnDelete:SET NULL"`
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ScopeLevel == "" {
		c.ScopeLevel = ScopeNational
	}
	return nil
}
