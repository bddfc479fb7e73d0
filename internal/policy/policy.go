// Package policy decides whether an actor may read or write vote entries
// for a given center. Admins are unrestricted; sub-users are limited to
// their assigned centers and may submit each center exactly once.
package policy

import (
	"errors"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"

	"gorm.io/gorm"
)

// Denial is an access-policy rejection with a human-readable reason.
// It is always surfaced to the caller, never silently dropped.
type Denial struct {
	Reason string
}

func (d *Denial) Error() string { return d.Reason }

// IsDenial reports whether err is a policy denial (as opposed to a
// storage failure during the check).
func IsDenial(err error) bool {
	var d *Denial
	return errors.As(err, &d)
}

// CanWrite checks whether actor may submit vote counts for center.
// It must be called with the same transaction handle the subsequent
// upsert runs in, so the write-once check for sub-users cannot race a
// concurrent first submission.
func CanWrite(tx *gorm.DB, actor *models.User, center *models.VoteCenter) error {
	if actor == nil {
		return &Denial{Reason: "not signed in"}
	}
	if actor.IsAdmin() {
		// admins may resubmit; this is the only correction path
		return nil
	}
	if center.AssignedToUserID == nil || *center.AssignedToUserID != actor.ID {
		return &Denial{Reason: "you can only submit votes for your assigned centers"}
	}

	// write-once: a sub-user may not touch a center that already has entries
	var n int64
	if err := tx.Model(&models.VoteEntry{}).
		Where("center_id = ?", center.ID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return &Denial{Reason: "votes have already been submitted for this center"}
	}
	return nil
}

// CanRead checks whether actor may list the raw vote entries of center.
// Aggregated results are public; raw per-center entries are not.
func CanRead(actor *models.User, center *models.VoteCenter) error {
	if actor == nil {
		return &Denial{Reason: "not signed in"}
	}
	if actor.IsAdmin() {
		return nil
	}
	if center.AssignedToUserID == nil || *center.AssignedToUserID != actor.ID {
		return &Denial{Reason: "you can only view entries for your assigned centers"}
	}
	return nil
}
