package tally

import (
	"errors"
	"testing"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/policy"

	"gorm.io/gorm"
)

func makeSubUser(t *testing.T, db *gorm.DB, centers ...*models.VoteCenter) *models.User {
	t.Helper()
	u := models.User{Username: "agent1", PasswordHash: "x", Role: models.RoleSubUser}
	mustCreate(t, db, &u)
	for _, c := range centers {
		if err := db.Model(c).Update("assigned_to_user_id", u.ID).Error; err != nil {
			t.Fatalf("assign center: %v", err)
		}
		c.AssignedToUserID = &u.ID
	}
	return &u
}

func TestSubmitVotesAdminUpsert(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	engine := NewEngine(db)

	err := engine.SubmitVotes(&f.Admin, f.Center1.ID, map[string]interface{}{
		candRedID:   float64(100), // JSON numbers arrive as float64
		candGreenID: "40",
	})
	if err != nil {
		t.Fatalf("SubmitVotes: %v", err)
	}

	entries, err := engine.EntriesForCenter(&f.Admin, f.Center1.ID)
	if err != nil {
		t.Fatalf("EntriesForCenter: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].VoteCount != 100 || entries[1].VoteCount != 40 {
		t.Errorf("counts = [%d %d], want [100 40]", entries[0].VoteCount, entries[1].VoteCount)
	}
	if entries[0].SubmittedByUserID == nil || *entries[0].SubmittedByUserID != f.Admin.ID {
		t.Error("submitter not recorded")
	}

	// admin resubmission replaces, never duplicates
	err = engine.SubmitVotes(&f.Admin, f.Center1.ID, map[string]interface{}{
		candRedID: float64(250),
	})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	entries, err = engine.EntriesForCenter(&f.Admin, f.Center1.ID)
	if err != nil {
		t.Fatalf("EntriesForCenter: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) after resubmit = %d, want 2", len(entries))
	}
	if entries[0].VoteCount != 250 {
		t.Errorf("resubmitted count = %d, want 250", entries[0].VoteCount)
	}
	if entries[1].VoteCount != 40 {
		t.Errorf("untouched count = %d, want 40", entries[1].VoteCount)
	}
}

func TestSubmitVotesCoercesMalformedCounts(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	engine := NewEngine(db)

	err := engine.SubmitVotes(&f.Admin, f.Center1.ID, map[string]interface{}{
		candRedID:   "lots",
		candGreenID: float64(-5),
	})
	if err != nil {
		t.Fatalf("SubmitVotes: %v", err)
	}

	entries, err := engine.EntriesForCenter(&f.Admin, f.Center1.ID)
	if err != nil {
		t.Fatalf("EntriesForCenter: %v", err)
	}
	for _, e := range entries {
		if e.VoteCount != 0 {
			t.Errorf("candidate %s count = %d, want 0", e.CandidateID, e.VoteCount)
		}
	}
}

func TestSubmitVotesSubUserWriteOnce(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	engine := NewEngine(db)
	sub := makeSubUser(t, db, &f.Center1)

	err := engine.SubmitVotes(sub, f.Center1.ID, map[string]interface{}{
		candRedID: float64(10),
	})
	if err != nil {
		t.Fatalf("first submission: %v", err)
	}

	err = engine.SubmitVotes(sub, f.Center1.ID, map[string]interface{}{
		candRedID: float64(99),
	})
	if !policy.IsDenial(err) {
		t.Fatalf("second submission error = %v, want policy denial", err)
	}

	// the first submission must be untouched
	entries, err := engine.EntriesForCenter(sub, f.Center1.ID)
	if err != nil {
		t.Fatalf("EntriesForCenter: %v", err)
	}
	if len(entries) != 1 || entries[0].VoteCount != 10 {
		t.Errorf("entries = %+v, want the original single count of 10", entries)
	}

	// an admin can still correct the center afterwards
	if err := engine.SubmitVotes(&f.Admin, f.Center1.ID, map[string]interface{}{
		candRedID: float64(12),
	}); err != nil {
		t.Fatalf("admin correction: %v", err)
	}
}

func TestSubmitVotesUnassignedCenter(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	engine := NewEngine(db)
	sub := makeSubUser(t, db, &f.Center1)

	err := engine.SubmitVotes(sub, f.Center2.ID, map[string]interface{}{
		candRedID: float64(5),
	})
	if !policy.IsDenial(err) {
		t.Fatalf("error = %v, want policy denial", err)
	}

	var n int64
	if err := db.Model(&models.VoteEntry{}).Count(&n).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if n != 0 {
		t.Errorf("entries written = %d, want 0", n)
	}
}

func TestSubmitVotesValidation(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	engine := NewEngine(db)

	if err := engine.SubmitVotes(&f.Admin, f.Center1.ID, map[string]interface{}{}); !errors.Is(err, ErrNoEntries) {
		t.Errorf("empty counts error = %v, want ErrNoEntries", err)
	}

	err := engine.SubmitVotes(&f.Admin, "does-not-exist", map[string]interface{}{
		candRedID: float64(1),
	})
	if !errors.Is(err, ErrCenterNotFound) {
		t.Errorf("missing center error = %v, want ErrCenterNotFound", err)
	}
}

func TestEntriesForCenterReadGate(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	engine := NewEngine(db)
	sub := makeSubUser(t, db, &f.Center1)
	seedVotes(t, db, f.Center2.ID, map[string]int64{candRedID: 7})

	if _, err := engine.EntriesForCenter(sub, f.Center2.ID); !policy.IsDenial(err) {
		t.Errorf("error = %v, want policy denial for foreign center", err)
	}
	if _, err := engine.EntriesForCenter(&f.Admin, f.Center2.ID); err != nil {
		t.Errorf("admin read: %v", err)
	}
	if _, err := engine.EntriesForCenter(nil, f.Center2.ID); !policy.IsDenial(err) {
		t.Errorf("anonymous read error = %v, want policy denial", err)
	}
	if _, err := engine.EntriesForCenter(&f.Admin, "does-not-exist"); !errors.Is(err, ErrCenterNotFound) {
		t.Errorf("missing center error = %v, want ErrCenterNotFound", err)
	}
}
