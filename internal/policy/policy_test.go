package policy

import (
	"testing"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/database"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type world struct {
	admin    models.User
	sub      models.User
	owned    models.VoteCenter
	foreign  models.VoteCenter
	division models.Division
}

func seedWorld(t *testing.T, db *gorm.DB) *world {
	t.Helper()
	w := &world{}

	w.admin = models.User{Username: "admin", PasswordHash: "x", Role: models.RoleAdmin}
	w.sub = models.User{Username: "agent", PasswordHash: "x", Role: models.RoleSubUser}
	for _, u := range []*models.User{&w.admin, &w.sub} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	w.division = models.Division{Name: "Dhaka"}
	district := models.District{Name: "Dhaka"}
	upazila := models.Upazila{Name: "Savar"}
	union := models.Union{Name: "Amin Bazar"}
	if err := db.Create(&w.division).Error; err != nil {
		t.Fatalf("create division: %v", err)
	}
	district.DivisionID = w.division.ID
	if err := db.Create(&district).Error; err != nil {
		t.Fatalf("create district: %v", err)
	}
	upazila.DistrictID = district.ID
	if err := db.Create(&upazila).Error; err != nil {
		t.Fatalf("create upazila: %v", err)
	}
	union.UpazilaID = upazila.ID
	if err := db.Create(&union).Error; err != nil {
		t.Fatalf("create union: %v", err)
	}

	w.owned = models.VoteCenter{Name: "Owned", UnionID: union.ID, AssignedToUserID: &w.sub.ID}
	w.foreign = models.VoteCenter{Name: "Foreign", UnionID: union.ID}
	for _, c := range []*models.VoteCenter{&w.owned, &w.foreign} {
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("create center: %v", err)
		}
	}
	return w
}

func TestCanWriteAdmin(t *testing.T) {
	db := newTestDB(t)
	w := seedWorld(t, db)

	// unrestricted, even where entries already exist
	if err := CanWrite(db, &w.admin, &w.foreign); err != nil {
		t.Errorf("admin on foreign center: %v", err)
	}
	cand := models.Candidate{Name: "Alpha", Party: "Red"}
	if err := db.Create(&cand).Error; err != nil {
		t.Fatalf("create candidate: %v", err)
	}
	entry := models.VoteEntry{CenterID: w.owned.ID, CandidateID: cand.ID, VoteCount: 1}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if err := CanWrite(db, &w.admin, &w.owned); err != nil {
		t.Errorf("admin on submitted center: %v", err)
	}
}

func TestCanWriteSubUser(t *testing.T) {
	db := newTestDB(t)
	w := seedWorld(t, db)

	if err := CanWrite(db, &w.sub, &w.owned); err != nil {
		t.Errorf("assigned center before first submission: %v", err)
	}
	if err := CanWrite(db, &w.sub, &w.foreign); !IsDenial(err) {
		t.Errorf("unassigned center error = %v, want denial", err)
	}
	if err := CanWrite(db, nil, &w.owned); !IsDenial(err) {
		t.Errorf("anonymous error = %v, want denial", err)
	}
}

func TestCanWriteSubUserWriteOnce(t *testing.T) {
	db := newTestDB(t)
	w := seedWorld(t, db)

	cand := models.Candidate{Name: "Alpha", Party: "Red"}
	if err := db.Create(&cand).Error; err != nil {
		t.Fatalf("create candidate: %v", err)
	}
	entry := models.VoteEntry{CenterID: w.owned.ID, CandidateID: cand.ID, VoteCount: 5}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("create entry: %v", err)
	}

	err := CanWrite(db, &w.sub, &w.owned)
	if !IsDenial(err) {
		t.Fatalf("error = %v, want denial after first submission", err)
	}
	if err.Error() == "" {
		t.Error("denial reason must not be empty")
	}
}

func TestCanRead(t *testing.T) {
	db := newTestDB(t)
	w := seedWorld(t, db)

	if err := CanRead(&w.admin, &w.foreign); err != nil {
		t.Errorf("admin: %v", err)
	}
	if err := CanRead(&w.sub, &w.owned); err != nil {
		t.Errorf("sub-user on own center: %v", err)
	}
	if err := CanRead(&w.sub, &w.foreign); !IsDenial(err) {
		t.Errorf("sub-user on foreign center error = %v, want denial", err)
	}
	if err := CanRead(nil, &w.owned); !IsDenial(err) {
		t.Errorf("anonymous error = %v, want denial", err)
	}
}

func TestIsDenialDistinguishesStorageErrors(t *testing.T) {
	if IsDenial(gorm.ErrInvalidDB) {
		t.Error("storage errors must not count as denials")
	}
	if !IsDenial(&Denial{Reason: "nope"}) {
		t.Error("a Denial must count as a denial")
	}
}
