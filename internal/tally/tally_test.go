package tally

import (
	"testing"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/database"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
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
	// a :memory: database exists per connection; keep a single one
	sqlDB.SetMaxOpenConns(1)
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fixture is a two-division hierarchy with one constituency per district
// and three candidates. Candidate IDs are fixed and ordered so tie-break
// assertions are deterministic.
type fixture struct {
	DhakaDivision  models.Division
	DhakaDistrict  models.District
	Dhaka1         models.Constituency
	Savar          models.Upazila
	AminBazar      models.Union
	Center1        models.VoteCenter
	Center2        models.VoteCenter
	CtgDivision    models.Division
	ComillaDist    models.District
	Comilla1       models.Constituency
	Laksam         models.Upazila
	Bakai          models.Union
	Center3        models.VoteCenter
	CandRed        models.Candidate // contests Dhaka-1
	CandGreen      models.Candidate // contests Dhaka-1
	CandRedComilla models.Candidate // contests Comilla-1
	Admin          models.User
}

const (
	candRedID        = "11111111-1111-1111-1111-111111111111"
	candGreenID      = "22222222-2222-2222-2222-222222222222"
	candRedComillaID = "33333333-3333-3333-3333-333333333333"
)

func seedFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	f := &fixture{}

	f.Admin = models.User{Username: "admin", PasswordHash: "x", Role: models.RoleAdmin}
	mustCreate(t, db, &f.Admin)

	f.DhakaDivision = models.Division{Name: "Dhaka"}
	mustCreate(t, db, &f.DhakaDivision)
	f.DhakaDistrict = models.District{Name: "Dhaka", DivisionID: f.DhakaDivision.ID}
	mustCreate(t, db, &f.DhakaDistrict)
	seatDhaka := "Dhaka-1"
	f.Dhaka1 = models.Constituency{Name: "Dhaka-1", SeatNumber: &seatDhaka, DistrictID: f.DhakaDistrict.ID}
	mustCreate(t, db, &f.Dhaka1)
	f.Savar = models.Upazila{Name: "Savar", DistrictID: f.DhakaDistrict.ID, ConstituencyID: &f.Dhaka1.ID}
	mustCreate(t, db, &f.Savar)
	f.AminBazar = models.Union{Name: "Amin Bazar", UpazilaID: f.Savar.ID}
	mustCreate(t, db, &f.AminBazar)
	f.Center1 = models.VoteCenter{Name: "Center 1", UnionID: f.AminBazar.ID}
	mustCreate(t, db, &f.Center1)
	f.Center2 = models.VoteCenter{Name: "Center 2", UnionID: f.AminBazar.ID}
	mustCreate(t, db, &f.Center2)

	f.CtgDivision = models.Division{Name: "Chattogram"}
	mustCreate(t, db, &f.CtgDivision)
	f.ComillaDist = models.District{Name: "Comilla", DivisionID: f.CtgDivision.ID}
	mustCreate(t, db, &f.ComillaDist)
	seatComilla := "Comilla-1"
	f.Comilla1 = models.Constituency{Name: "Comilla-1", SeatNumber: &seatComilla, DistrictID: f.ComillaDist.ID}
	mustCreate(t, db, &f.Comilla1)
	f.Laksam = models.Upazila{Name: "Laksam", DistrictID: f.ComillaDist.ID, ConstituencyID: &f.Comilla1.ID}
	mustCreate(t, db, &f.Laksam)
	f.Bakai = models.Union{Name: "Bakai", UpazilaID: f.Laksam.ID}
	mustCreate(t, db, &f.Bakai)
	f.Center3 = models.VoteCenter{Name: "Center 3", UnionID: f.Bakai.ID}
	mustCreate(t, db, &f.Center3)

	f.CandRed = models.Candidate{ID: candRedID, Name: "Alpha", Party: "Red Party", ConstituencyID: &f.Dhaka1.ID}
	mustCreate(t, db, &f.CandRed)
	f.CandGreen = models.Candidate{ID: candGreenID, Name: "Beta", Party: "Green Party", ConstituencyID: &f.Dhaka1.ID}
	mustCreate(t, db, &f.CandGreen)
	f.CandRedComilla = models.Candidate{ID: candRedComillaID, Name: "Gamma", Party: "Red Party", ConstituencyID: &f.Comilla1.ID}
	mustCreate(t, db, &f.CandRedComilla)

	return f
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

// seedVotes inserts vote entries directly, bypassing policy.
func seedVotes(t *testing.T, db *gorm.DB, centerID string, counts map[string]int64) {
	t.Helper()
	for candidateID, count := range counts {
		entry := models.VoteEntry{
			CenterID:    centerID,
			CandidateID: candidateID,
			VoteCount:   count,
		}
		if err := db.Create(&entry).Error; err != nil {
			t.Fatalf("create vote entry: %v", err)
		}
	}
}
