package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoteEntry is the atomic fact of the system: the latest submitted count
// for one candidate at one center. The (center, candidate) pair is unique;
// resubmission overwrites in place, there is no history.
type VoteEntry struct {
	ID                string  `gorm:"type:uuid;primaryKey"`
	CenterID          string  `gorm:"type:uuid;not null;index;uniqueIndex:idx_vote_center_candidate"`
	CandidateID       string  `gorm:"type:uuid;not null;index;uniqueIndex:idx_vote_center_candidate"`
	VoteCount         int64   `gorm:"not null;default:0"`
	SubmittedByUserID *string `gorm:"type:uuid;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Center          VoteCenter `gorm:"foreignKey:CenterID;constraint:OnDelete:CASCADE"`
	Candidate       Candidate  `gorm:"constraint:OnDelete:CASCADE"`
	SubmittedByUser *User      `gorm:"foreignKey:SubmittedByUserID;constraint:OnDelete:SET NULL"`
}

func (v *VoteEntry) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
