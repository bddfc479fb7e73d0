package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The administrative hierarchy is a five-level tree:
// Division -> District -> Upazila -> Union -> VoteCenter.
// Constituencies form a coarser overlay attached to districts; an upazila
// may optionally belong to one constituency. Names are unique within their
// parent, not globally. Deleting a node that still has children or vote
// entries is refused at the FK level (RESTRICT, no cascading delete).

type Division struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Name      string `gorm:"size:128;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Districts []District `gorm:"constraint:OnDelete:RESTRICT"`
}

func (d *Division) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

type District struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	Name       string `gorm:"size:128;not null;uniqueIndex:idx_district_division_name"`
	DivisionID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_district_division_name"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Division       Division       `gorm:"constraint:OnDelete:RESTRICT"`
	Constituencies []Constituency `gorm:"constraint:OnDelete:RESTRICT"`
	Upazilas       []Upazila      `gorm:"constraint:OnDelete:RESTRICT"`
}

func (d *District) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// Constituency is a parliamentary seat area. It belongs to exactly one
// district and is used only for seat accounting, never for vote filtering
// below district level.
type Constituency struct {
	ID         string  `gorm:"type:uuid;primaryKey"`
	Name       string  `gorm:"size:128;not null;uniqueIndex:idx_constituency_district_name"`
	SeatNumber *string `gorm:"size:64"` // e.g. "Pabna-1"
	DistrictID string  `gorm:"type:uuid;not null;index;uniqueIndex:idx_constituency_district_name"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	District   District    `gorm:"constraint:OnDelete:RESTRICT"`
	Upazilas   []Upazila   `gorm:"constraint:OnDelete:SET NULL"`
	Candidates []Candidate `gorm:"constraint:OnDelete:SET NULL"`
}

func (c *Constituency) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Upazila struct {
	ID             string  `gorm:"type:uuid;primaryKey"`
	Name           string  `gorm:"size:128;not null;uniqueIndex:idx_upazila_district_name"`
	DistrictID     string  `gorm:"type:uuid;not null;index;uniqueIndex:idx_upazila_district_name"`
	ConstituencyID *string `gorm:"type:uuid;index"` // overlay attachment, optional
	CreatedAt      time.Time
	UpdatedAt      time.Time

	District     District      `gorm:"constraint:OnDelete:RESTRICT"`
	Constituency *Constituency `gorm:"constraint:OnDelete:SET NULL"`
	Unions       []Union       `gorm:"constraint:OnDelete:RESTRICT"`
}

func (u *Upazila) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Union struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Name      string `gorm:"size:128;not null;uniqueIndex:idx_union_upazila_name"`
	UpazilaID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_union_upazila_name"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Upazila Upazila      `gorm:"constraint:OnDelete:RESTRICT"`
	Centers []VoteCenter `gorm:"constraint:OnDelete:RESTRICT"`
}

// TableName avoids the default "unions": UNION is an SQL keyword and
// cannot appear unquoted in the raw join clauses.
func (Union) TableName() string { return "union_councils" }

func (u *Union) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// VoteCenter is a leaf of the hierarchy and the unit of vote submission.
// A center is owned by at most one sub-user via AssignedToUserID.
type VoteCenter struct {
	ID               string  `gorm:"type:uuid;primaryKey"`
	Name             string  `gorm:"size:128;not null;uniqueIndex:idx_center_union_name"`
	UnionID          string  `gorm:"type:uuid;not null;index;uniqueIndex:idx_center_union_name"`
	AssignedToUserID *string `gorm:"type:uuid;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Union          Union `gorm:"constraint:OnDelete:RESTRICT"`
	AssignedToUser *User `gorm:"foreignKey:AssignedToUserID;constraint:OnDelete:SET NULL"`
}

func (v *VoteCenter) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
