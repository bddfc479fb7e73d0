package tally

import (
	"fmt"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"
)

// drill-down level tags
const (
	LevelDivision     = "division"
	LevelDistrict     = "district"
	LevelConstituency = "constituency"
	LevelUpazila      = "upazila"
	LevelUnion        = "union"
	LevelCenter       = "center"
)

// ChildLocation is one row of a drill-down listing. SubUnitCount is the
// number of the node's own children, for display next to the name.
type ChildLocation struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SeatNumber   string `json:"seatNumber,omitempty"`
	SubUnitCount int64  `json:"subUnitCount"`
}

// ChildLocations lists the direct children of parentID at the given
// level, sorted by name ascending, except constituencies, which sort by
// seat number. Division level needs no parent (there is nothing above a
// division). The drill-down order interleaves the constituency overlay:
// division -> district -> constituency -> upazila -> union -> center.
func (e *Engine) ChildLocations(level, parentID string) ([]ChildLocation, error) {
	out := []ChildLocation{}
	if level != LevelDivision && parentID == "" {
		return out, nil
	}

	switch level {
	case LevelDivision:
		err := e.db.Model(&models.Division{}).
			Select(`divisions.id, divisions.name,
				(SELECT COUNT(*) FROM districts WHERE districts.division_id = divisions.id) AS sub_unit_count`).
			Order("divisions.name ASC").
			Scan(&out).Error
		return out, err

	case LevelDistrict:
		err := e.db.Model(&models.District{}).
			Select(`districts.id, districts.name,
				(SELECT COUNT(*) FROM constituencies WHERE constituencies.district_id = districts.id) AS sub_unit_count`).
			Where("districts.division_id = ?", parentID).
			Order("districts.name ASC").
			Scan(&out).Error
		return out, err

	case LevelConstituency:
		err := e.db.Model(&models.Constituency{}).
			Select(`constituencies.id, constituencies.name, constituencies.seat_number,
				(SELECT COUNT(*) FROM upazilas WHERE upazilas.constituency_id = constituencies.id) AS sub_unit_count`).
			Where("constituencies.district_id = ?", parentID).
			Order("constituencies.seat_number ASC").
			Scan(&out).Error
		return out, err

	case LevelUpazila:
		err := e.db.Model(&models.Upazila{}).
			Select(`upazilas.id, upazilas.name,
				(SELECT COUNT(*) FROM union_councils WHERE union_councils.upazila_id = upazilas.id) AS sub_unit_count`).
			Where("upazilas.constituency_id = ?", parentID).
			Order("upazilas.name ASC").
			Scan(&out).Error
		return out, err

	case LevelUnion:
		err := e.db.Model(&models.Union{}).
			Select(`union_councils.id, union_councils.name,
				(SELECT COUNT(*) FROM vote_centers WHERE vote_centers.union_id = union_councils.id) AS sub_unit_count`).
			Where("union_councils.upazila_id = ?", parentID).
			Order("union_councils.name ASC").
			Scan(&out).Error
		return out, err

	case LevelCenter:
		err := e.db.Model(&models.VoteCenter{}).
			Select("vote_centers.id, vote_centers.name, 0 AS sub_unit_count").
			Where("vote_centers.union_id = ?", parentID).
			Order("vote_centers.name ASC").
			Scan(&out).Error
		return out, err

	default:
		return nil, fmt.Errorf("unknown location level %q", level)
	}
}
