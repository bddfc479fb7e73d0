package tally

import "gorm.io/gorm"

// Filter scopes vote entries to a subtree of the administrative hierarchy.
// At most one field is set; the zero value means national (no filtering).
// The constituency case follows the overlay attachment: centers whose
// upazila belongs to the constituency.
type Filter struct {
	CenterID       string
	UnionID        string
	UpazilaID      string
	ConstituencyID string
	DistrictID     string
	DivisionID     string
}

// IsNational reports whether the filter selects every vote entry.
func (f Filter) IsNational() bool {
	return f == Filter{}
}

const (
	joinCenters   = "JOIN vote_centers ON vote_centers.id = vote_entries.center_id"
	joinUnions    = "JOIN union_councils ON union_councils.id = vote_centers.union_id"
	joinUpazilas  = "JOIN upazilas ON upazilas.id = union_councils.upazila_id"
	joinDistricts = "JOIN districts ON districts.id = upazilas.district_id"
)

// apply narrows a vote_entries query to the filter's subtree. The filter
// is always resolved to center reachability through the tree; no
// secondary indexes are involved.
func (f Filter) apply(q *gorm.DB) *gorm.DB {
	switch {
	case f.CenterID != "":
		return q.Where("vote_entries.center_id = ?", f.CenterID)
	case f.UnionID != "":
		return q.Joins(joinCenters).
			Where("vote_centers.union_id = ?", f.UnionID)
	case f.UpazilaID != "":
		return q.Joins(joinCenters).Joins(joinUnions).
			Where("union_councils.upazila_id = ?", f.UpazilaID)
	case f.ConstituencyID != "":
		return q.Joins(joinCenters).Joins(joinUnions).Joins(joinUpazilas).
			Where("upazilas.constituency_id = ?", f.ConstituencyID)
	case f.DistrictID != "":
		return q.Joins(joinCenters).Joins(joinUnions).Joins(joinUpazilas).
			Where("upazilas.district_id = ?", f.DistrictID)
	case f.DivisionID != "":
		return q.Joins(joinCenters).Joins(joinUnions).Joins(joinUpazilas).Joins(joinDistricts).
			Where("districts.division_id = ?", f.DivisionID)
	default:
		return q
	}
}
