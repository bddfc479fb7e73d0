// Package tally is the aggregation core. It rolls vote entries up through
// the administrative hierarchy and ranks candidates, with winner-take-all
// seat counts per parliamentary constituency at district scope and above.
package tally

import (
	"math"
	"sort"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"

	"gorm.io/gorm"
)

// location type labels reported in stats
const (
	TypeNational     = "National"
	TypeDivision     = "Division"
	TypeDistrict     = "District"
	TypeConstituency = "Constituency"
	TypeUpazila      = "Upazila"
	TypeUnion        = "Union"
	TypeCenter       = "Vote Center"
)

// VoteResult is one ranked row of a rollup.
type VoteResult struct {
	CandidateName string  `json:"candidateName"`
	PartyName     string  `json:"partyName"`
	VoteCount     int64   `json:"voteCount"`
	Percentage    float64 `json:"percentage"`
	Symbol        string  `json:"symbol,omitempty"`
}

// PartySeat is a per-party seat tally.
type PartySeat struct {
	PartyName string `json:"partyName"`
	Seats     int    `json:"seats"`
}

// LeadingParty names the front-runner of a rollup.
type LeadingParty struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// LocationStats is the full result of one rollup.
type LocationStats struct {
	LocationName string        `json:"locationName"`
	LocationType string        `json:"locationType"`
	TotalVotes   int64         `json:"totalVotes"`
	Results      []VoteResult  `json:"results"`
	LeadingParty *LeadingParty `json:"leadingParty,omitempty"`
	PartySeats   []PartySeat   `json:"partySeats,omitempty"`
}

// Engine computes rollups against an injected store handle. It holds no
// mutable state of its own; a single instance is shared by all requests.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ComputeResults sums vote entries in the filter's scope grouped by
// candidate, ranks them with percentages, and for national, division and
// district scope additionally computes constituency seat counts. A filter
// matching nothing is not an error: it yields zero-valued stats.
func (e *Engine) ComputeResults(f Filter, locationName, locationType string) (*LocationStats, error) {
	type groupedVotes struct {
		CandidateID string
		Total       int64
	}

	var grouped []groupedVotes
	q := e.db.Model(&models.VoteEntry{}).
		Select("vote_entries.candidate_id AS candidate_id, SUM(vote_entries.vote_count) AS total")
	q = f.apply(q)
	// candidate_id order keeps ties deterministic through the stable sort below
	if err := q.Group("vote_entries.candidate_id").
		Order("vote_entries.candidate_id ASC").
		Scan(&grouped).Error; err != nil {
		return nil, err
	}

	var totalVotes int64
	for _, g := range grouped {
		totalVotes += g.Total
	}

	// one full candidate load; cardinality is small, never query per row
	var candidates []models.Candidate
	if err := e.db.Find(&candidates).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Candidate, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	results := make([]VoteResult, 0, len(grouped))
	for _, g := range grouped {
		name, party, symbol := "Unknown", "Unknown", ""
		if cand, ok := byID[g.CandidateID]; ok {
			name, party = cand.Name, cand.Party
			if cand.Symbol != nil {
				symbol = *cand.Symbol
			}
		}
		pct := 0.0
		if totalVotes > 0 {
			pct = round1(float64(g.Total) / float64(totalVotes) * 100)
		}
		results = append(results, VoteResult{
			CandidateName: name,
			PartyName:     party,
			VoteCount:     g.Total,
			Percentage:    pct,
			Symbol:        symbol,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].VoteCount > results[j].VoteCount
	})

	stats := &LocationStats{
		LocationName: locationName,
		LocationType: locationType,
		TotalVotes:   totalVotes,
		Results:      results,
	}
	if len(results) > 0 {
		stats.LeadingParty = &LeadingParty{
			Name:  results[0].PartyName,
			Count: results[0].VoteCount,
		}
	}

	switch locationType {
	case TypeNational, TypeDivision, TypeDistrict:
		seats, err := e.computeSeats(f)
		if err != nil {
			return nil, err
		}
		stats.PartySeats = seats
	}

	return stats, nil
}

// computeSeats awards one seat per constituency in scope to the party of
// the candidate with the strictly greatest global vote total. Candidate
// votes are summed across all centers regardless of constituency boundary
// alignment, because vote entries carry no constituency tag. A
// constituency with no candidates, or where every candidate has zero
// votes, awards nothing. Ties go to the lowest candidate ID.
func (e *Engine) computeSeats(f Filter) ([]PartySeat, error) {
	q := e.db.Model(&models.Constituency{})
	switch {
	case f.DivisionID != "":
		q = q.Joins("JOIN districts ON districts.id = constituencies.district_id").
			Where("districts.division_id = ?", f.DivisionID)
	case f.DistrictID != "":
		q = q.Where("constituencies.district_id = ?", f.DistrictID)
	}

	var constituencies []models.Constituency
	if err := q.Find(&constituencies).Error; err != nil {
		return nil, err
	}
	if len(constituencies) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(constituencies))
	for _, c := range constituencies {
		ids = append(ids, c.ID)
	}

	var contenders []models.Candidate
	if err := e.db.Where("constituency_id IN ?", ids).
		Order("id ASC").
		Find(&contenders).Error; err != nil {
		return nil, err
	}
	if len(contenders) == 0 {
		return nil, nil
	}

	candidateIDs := make([]string, 0, len(contenders))
	byConstituency := make(map[string][]*models.Candidate)
	for i := range contenders {
		cand := &contenders[i]
		candidateIDs = append(candidateIDs, cand.ID)
		byConstituency[*cand.ConstituencyID] = append(byConstituency[*cand.ConstituencyID], cand)
	}

	type groupedVotes struct {
		CandidateID string
		Total       int64
	}
	var grouped []groupedVotes
	if err := e.db.Model(&models.VoteEntry{}).
		Select("candidate_id, SUM(vote_count) AS total").
		Where("candidate_id IN ?", candidateIDs).
		Group("candidate_id").
		Scan(&grouped).Error; err != nil {
		return nil, err
	}
	votes := make(map[string]int64, len(grouped))
	for _, g := range grouped {
		votes[g.CandidateID] = g.Total
	}

	seatCount := make(map[string]int)
	for _, c := range constituencies {
		var (
			winnerParty string
			maxVotes    int64 = -1
		)
		for _, cand := range byConstituency[c.ID] {
			if v := votes[cand.ID]; v > maxVotes {
				maxVotes = v
				winnerParty = cand.Party
			}
		}
		if winnerParty != "" && maxVotes > 0 {
			seatCount[winnerParty]++
		}
	}
	if len(seatCount) == 0 {
		return nil, nil
	}

	seats := make([]PartySeat, 0, len(seatCount))
	for party, n := range seatCount {
		seats = append(seats, PartySeat{PartyName: party, Seats: n})
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Seats != seats[j].Seats {
			return seats[i].Seats > seats[j].Seats
		}
		return seats[i].PartyName < seats[j].PartyName
	})
	return seats, nil
}
