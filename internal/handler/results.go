package handler

import (
	"net/http"
	"time"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/metrics"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/tally"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/util"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// ResultsHandler serves the public dashboard: aggregated stats for any
// hierarchy level plus the child locations for drill-down. Responses are
// cached briefly; the cache is flushed on every successful submission.
type ResultsHandler struct {
	DB     *gorm.DB
	Engine *tally.Engine
	Cache  *gocache.Cache
	TTL    time.Duration
}

func NewResultsHandler(db *gorm.DB, engine *tally.Engine, cache *gocache.Cache, ttl time.Duration) *ResultsHandler {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &ResultsHandler{DB: db, Engine: engine, Cache: cache, TTL: ttl}
}

type resultsPayload struct {
	Stats          *tally.LocationStats  `json:"stats"`
	ChildType      string                `json:"childType,omitempty"`
	ChildLocations []tally.ChildLocation `json:"childLocations"`
}

// resolveScope turns the request's location parameter into a vote filter,
// a display name/type, and the drill-down child level. An unknown id
// resolves to "Unknown <Type>" but still yields a runnable filter: the
// rollup degrades to zero-valued stats instead of failing.
func (h *ResultsHandler) resolveScope(c *gin.Context) (tally.Filter, string, string, string, string) {
	name := func(loaded string, err error, fallback string) string {
		if err != nil || loaded == "" {
			return fallback
		}
		return loaded
	}

	if id := c.Query("centerId"); id != "" {
		var node models.VoteCenter
		err := h.DB.First(&node, "id = ?", id).Error
		return tally.Filter{CenterID: id},
			name(node.Name, err, "Unknown Center"), tally.TypeCenter, "", ""
	}
	if id := c.Query("unionId"); id != "" {
		var node models.Union
		err := h.DB.First(&node, "id = ?", id).Error
		return tally.Filter{UnionID: id},
			name(node.Name, err, "Unknown Union"), tally.TypeUnion, tally.LevelCenter, id
	}
	if id := c.Query("upazilaId"); id != "" {
		var node models.Upazila
		err := h.DB.First(&node, "id = ?", id).Error
		return tally.Filter{UpazilaID: id},
			name(node.Name, err, "Unknown Upazila"), tally.TypeUpazila, tally.LevelUnion, id
	}
	if id := c.Query("constituencyId"); id != "" {
		var node models.Constituency
		err := h.DB.First(&node, "id = ?", id).Error
		return tally.Filter{ConstituencyID: id},
			name(node.Name, err, "Unknown Constituency"), tally.TypeConstituency, tally.LevelUpazila, id
	}
	if id := c.Query("districtId"); id != "" {
		var node models.District
		err := h.DB.First(&node, "id = ?", id).Error
		return tally.Filter{DistrictID: id},
			name(node.Name, err, "Unknown District"), tally.TypeDistrict, tally.LevelConstituency, id
	}
	if id := c.Query("divisionId"); id != "" {
		var node models.Division
		err := h.DB.First(&node, "id = ?", id).Error
		return tally.Filter{DivisionID: id},
			name(node.Name, err, "Unknown Division"), tally.TypeDivision, tally.LevelDistrict, id
	}
	return tally.Filter{}, "National", tally.TypeNational, tally.LevelDivision, ""
}

// GetResults serves GET /api/results with one optional location id
// parameter. Precedence follows the hierarchy bottom-up: centerId wins
// over unionId, and so on up to divisionId.
func (h *ResultsHandler) GetResults(c *gin.Context) {
	metrics.ResultsRequestsTotal.Inc()

	cacheKey := c.Request.URL.RawQuery
	if cached, ok := h.Cache.Get(cacheKey); ok {
		metrics.ResultsCacheHitsTotal.Inc()
		util.Success(c, util.Response{"results": cached})
		return
	}

	filter, locationName, locationType, childLevel, childParent := h.resolveScope(c)

	started := time.Now()
	stats, err := h.Engine.ComputeResults(filter, locationName, locationType)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to compute results")
		return
	}
	metrics.RollupDurationMs.Observe(float64(time.Since(started).Milliseconds()))

	payload := resultsPayload{Stats: stats, ChildType: childLevel, ChildLocations: []tally.ChildLocation{}}
	if childLevel != "" {
		children, err := h.Engine.ChildLocations(childLevel, childParent)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list child locations")
			return
		}
		payload.ChildLocations = children
	}

	h.Cache.Set(cacheKey, payload, h.TTL)

	util.Success(c, util.Response{"results": payload})
}
