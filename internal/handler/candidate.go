package handler

import (
	"net/http"
	"strings"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CandidateHandler serves the candidate registry. Scope is a tagged
// variant (level + id): a candidate is national or pinned to exactly one
// division/district/upazila/union, never to a constituency. The
// constituency FK is the contested seat, used only for seat counting.
type CandidateHandler struct {
	DB *gorm.DB
}

func NewCandidateHandler(db *gorm.DB) *CandidateHandler {
	return &CandidateHandler{DB: db}
}

type candidateReq struct {
	Name           string `json:"name" binding:"required,max=128"`
	Party          string `json:"party" binding:"required,max=128"`
	Symbol         string `json:"symbol"`
	SeatNumber     string `json:"seat_number"`
	ConstituencyID string `json:"constituency_id"`
	ScopeLevel     string `json:"scope_level"`
	ScopeID        string `json:"scope_id"`
}

func (r *candidateReq) scope() (models.ScopeLevel, *string, bool) {
	level := models.ScopeLevel(r.ScopeLevel)
	if r.ScopeLevel == "" {
		level = models.ScopeNational
	}
	if !level.Valid() {
		return "", nil, false
	}
	if level == models.ScopeNational {
		return level, nil, r.ScopeID == ""
	}
	if r.ScopeID == "" {
		return "", nil, false
	}
	id := r.ScopeID
	return level, &id, true
}

func candidateResp(cand *models.Candidate) gin.H {
	return gin.H{
		"id":              cand.ID,
		"name":            cand.Name,
		"party":           cand.Party,
		"symbol":          cand.Symbol,
		"seat_number":     cand.SeatNumber,
		"constituency_id": cand.ConstituencyID,
		"scope_level":     cand.ScopeLevel,
		"scope_id":        cand.ScopeID,
	}
}

// ListCandidates returns all candidates, optionally filtered by a
// case-insensitive search over name, party and symbol.
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	query := h.DB.Model(&models.Candidate{}).Order("name ASC")
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(party) LIKE ? OR LOWER(symbol) LIKE ?",
			like, like, like,
		)
	}

	var candidates []models.Candidate
	if err := query.Find(&candidates).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list candidates")
		return
	}

	items := make([]gin.H, 0, len(candidates))
	for i := range candidates {
		items = append(items, candidateResp(&candidates[i]))
	}
	util.Success(c, util.Response{"candidates": items})
}

// CreateCandidate registers a candidate.
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var req candidateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	level, scopeID, ok := req.scope()
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"scope must be national, or one level with its location id")
		return
	}

	cand := models.Candidate{
		Name:           strings.TrimSpace(req.Name),
		Party:          strings.TrimSpace(req.Party),
		Symbol:         optional(req.Symbol),
		SeatNumber:     optional(req.SeatNumber),
		ConstituencyID: optional(req.ConstituencyID),
		ScopeLevel:     level,
		ScopeID:        scopeID,
	}
	if err := h.DB.Create(&cand).Error; err != nil {
		util.Error(c, http.StatusConflict, util.CodeIntegrity, "could not create candidate")
		return
	}

	util.Success(c, util.Response{"candidate": candidateResp(&cand)})
}

// UpdateCandidate rewrites a candidate's fields and scope.
func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	id := c.Param("id")

	var cand models.Candidate
	if err := h.DB.First(&cand, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "candidate not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load candidate")
		}
		return
	}

	var req candidateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	level, scopeID, ok := req.scope()
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"scope must be national, or one level with its location id")
		return
	}

	cand.Name = strings.TrimSpace(req.Name)
	cand.Party = strings.TrimSpace(req.Party)
	cand.Symbol = optional(req.Symbol)
	cand.SeatNumber = optional(req.SeatNumber)
	cand.ConstituencyID = optional(req.ConstituencyID)
	cand.ScopeLevel = level
	cand.ScopeID = scopeID

	if err := h.DB.Save(&cand).Error; err != nil {
		util.Error(c, http.StatusConflict, util.CodeIntegrity, "could not update candidate")
		return
	}

	util.Success(c, util.Response{"candidate": candidateResp(&cand)})
}

// DeleteCandidate removes a candidate together with their vote entries.
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	id := c.Param("id")

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.VoteEntry{}, "candidate_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Candidate{}, "id = ?", id).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete candidate")
		return
	}

	util.Success(c, util.Response{"message": "candidate deleted"})
}
