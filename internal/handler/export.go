package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler dumps the full vote-entry table with its location path
// for offline verification. Admin only.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

type exportRow struct {
	Division  string
	District  string
	Upazila   string
	UnionName string
	Center    string
	Candidate string
	Party     string
	VoteCount int64
	Submitter *string
	UpdatedAt time.Time
}

var exportHeader = []string{
	"Division", "District", "Upazila", "Union", "Center",
	"Candidate", "Party", "Votes", "Submitted By", "Last Updated",
}

func (h *ExportHandler) rows() ([]exportRow, error) {
	var out []exportRow
	err := h.DB.Model(&models.VoteEntry{}).
		Select(`divisions.name AS division, districts.name AS district,
			upazilas.name AS upazila, union_councils.name AS union_name,
			vote_centers.name AS center,
			candidates.name AS candidate, candidates.party AS party,
			vote_entries.vote_count AS vote_count,
			users.username AS submitter,
			vote_entries.updated_at AS updated_at`).
		Joins("JOIN vote_centers ON vote_centers.id = vote_entries.center_id").
		Joins("JOIN union_councils ON union_councils.id = vote_centers.union_id").
		Joins("JOIN upazilas ON upazilas.id = union_councils.upazila_id").
		Joins("JOIN districts ON districts.id = upazilas.district_id").
		Joins("JOIN divisions ON divisions.id = districts.division_id").
		Joins("JOIN candidates ON candidates.id = vote_entries.candidate_id").
		Joins("LEFT JOIN users ON users.id = vote_entries.submitted_by_user_id").
		Order("divisions.name, districts.name, upazilas.name, union_councils.name, vote_centers.name, candidates.name").
		Scan(&out).Error
	return out, err
}

func (r *exportRow) strings() []string {
	submitter := ""
	if r.Submitter != nil {
		submitter = *r.Submitter
	}
	return []string{
		r.Division, r.District, r.Upazila, r.UnionName, r.Center,
		r.Candidate, r.Party,
		strconv.FormatInt(r.VoteCount, 10),
		submitter,
		r.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ExportCSV streams all vote entries as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	rows, err := h.rows()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load vote entries")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"vote_entries_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM so spreadsheet apps detect the encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write(exportHeader)
	for i := range rows {
		writer.Write(rows[i].strings())
	}
}

// ExportXLSX writes all vote entries as an XLSX workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	rows, err := h.rows()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load vote entries")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Vote Entries"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	for i := range rows {
		for col, value := range rows[i].strings() {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"vote_entries_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write workbook")
		return
	}
}
