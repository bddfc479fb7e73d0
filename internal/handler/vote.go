package handler

import (
	"errors"
	"net/http"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/metrics"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/policy"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/tally"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/util"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

// VoteHandler serves the vote submission boundary. Every successful
// submission flushes the results cache so the dashboard reflects it on
// the next fetch.
type VoteHandler struct {
	Engine *tally.Engine
	Cache  *gocache.Cache
}

func NewVoteHandler(engine *tally.Engine, cache *gocache.Cache) *VoteHandler {
	return &VoteHandler{Engine: engine, Cache: cache}
}

// GetCenterVotes lists the stored counts of one center for pre-filling
// the entry form. Sub-users only see their assigned centers.
func (h *VoteHandler) GetCenterVotes(c *gin.Context) {
	user := currentUser(c)
	centerID := c.Query("centerId")
	if centerID == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "centerId is required")
		return
	}

	entries, err := h.Engine.EntriesForCenter(user, centerID)
	if err != nil {
		switch {
		case errors.Is(err, tally.ErrCenterNotFound):
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "vote center not found")
		case policy.IsDenial(err):
			util.Error(c, http.StatusForbidden, util.CodeForbidden, err.Error())
		default:
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load entries")
		}
		return
	}

	util.Success(c, util.Response{"votes": entries})
}

type submitVotesReq struct {
	CenterID string                 `json:"center_id" binding:"required"`
	Counts   map[string]interface{} `json:"counts"`
}

// SubmitVotes persists one center submission. Counts are keyed by
// candidate ID; malformed values coerce to 0 rather than failing the
// whole submission.
func (h *VoteHandler) SubmitVotes(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
		return
	}

	var req submitVotesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	if err := h.Engine.SubmitVotes(user, req.CenterID, req.Counts); err != nil {
		switch {
		case errors.Is(err, tally.ErrNoEntries):
			metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "no vote data provided")
		case errors.Is(err, tally.ErrCenterNotFound):
			metrics.SubmissionsTotal.WithLabelValues("not_found").Inc()
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "vote center not found")
		case policy.IsDenial(err):
			metrics.SubmissionsTotal.WithLabelValues("denied").Inc()
			util.Error(c, http.StatusForbidden, util.CodeForbidden, err.Error())
		default:
			metrics.SubmissionsTotal.WithLabelValues("error").Inc()
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save vote entries")
		}
		return
	}

	metrics.SubmissionsTotal.WithLabelValues("ok").Inc()
	h.Cache.Flush()

	util.Success(c, util.Response{"message": "votes saved"})
}
