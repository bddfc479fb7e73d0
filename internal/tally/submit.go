package tally

import (
	"errors"
	"sort"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/policy"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNoEntries rejects a submission with no candidate counts at all.
	ErrNoEntries = errors.New("no vote data provided")
	// ErrCenterNotFound rejects writes against a nonexistent center.
	ErrCenterNotFound = errors.New("vote center not found")
)

// SubmitVotes persists one center submission: a map of raw candidate
// counts keyed by candidate ID. Counts are coerced to non-negative
// integers (malformed input becomes 0, never an error); the whole
// submission commits in a single transaction, and the access-policy check
// runs inside that transaction so the sub-user write-once rule cannot
// race a concurrent first submission.
func (e *Engine) SubmitVotes(actor *models.User, centerID string, counts map[string]interface{}) error {
	if len(counts) == 0 {
		return ErrNoEntries
	}

	// fixed iteration order keeps multi-row upserts deadlock-free
	candidateIDs := make([]string, 0, len(counts))
	for id := range counts {
		candidateIDs = append(candidateIDs, id)
	}
	sort.Strings(candidateIDs)

	return e.db.Transaction(func(tx *gorm.DB) error {
		var center models.VoteCenter
		if err := tx.First(&center, "id = ?", centerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCenterNotFound
			}
			return err
		}

		if err := policy.CanWrite(tx, actor, &center); err != nil {
			return err
		}

		for _, candidateID := range candidateIDs {
			entry := models.VoteEntry{
				CenterID:          centerID,
				CandidateID:       candidateID,
				VoteCount:         util.CoerceCount(counts[candidateID]),
				SubmittedByUserID: &actor.ID,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "center_id"}, {Name: "candidate_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"vote_count", "submitted_by_user_id", "updated_at",
				}),
			}).Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CenterEntry is one stored count of a center, for pre-filling the entry
// form and review screens.
type CenterEntry struct {
	CandidateID       string  `json:"candidateId"`
	VoteCount         int64   `json:"voteCount"`
	SubmittedByUserID *string `json:"submittedByUserId,omitempty"`
}

// EntriesForCenter lists the stored counts of one center. Access is gated
// by the read policy: admins see every center, sub-users only their own.
func (e *Engine) EntriesForCenter(actor *models.User, centerID string) ([]CenterEntry, error) {
	var center models.VoteCenter
	if err := e.db.First(&center, "id = ?", centerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCenterNotFound
		}
		return nil, err
	}
	if err := policy.CanRead(actor, &center); err != nil {
		return nil, err
	}

	entries := []CenterEntry{}
	err := e.db.Model(&models.VoteEntry{}).
		Select("candidate_id, vote_count, submitted_by_user_id").
		Where("center_id = ?", centerID).
		Order("candidate_id ASC").
		Scan(&entries).Error
	return entries, err
}
