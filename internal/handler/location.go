package handler

import (
	"net/http"
	"strings"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LocationHandler serves the cascading location lookup used by forms, and
// admin CRUD over the hierarchy. Deletion is refused while a node still
// has children or vote entries: referential integrity, not cascading
// delete.
type LocationHandler struct {
	DB *gorm.DB
}

func NewLocationHandler(db *gorm.DB) *LocationHandler {
	return &LocationHandler{DB: db}
}

type locationRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListLocations serves GET /api/locations?type=&parentId= for cascading
// dropdowns. Unlike dashboard drill-down, this walks the primary tree
// only (division -> district -> upazila -> union -> center).
func (h *LocationHandler) ListLocations(c *gin.Context) {
	locType := c.Query("type")
	parentID := c.Query("parentId")

	rows := []locationRow{}
	var err error

	switch {
	case locType == "division":
		err = h.DB.Model(&models.Division{}).
			Select("id, name").Order("name ASC").Scan(&rows).Error
	case locType == "district" && parentID != "":
		err = h.DB.Model(&models.District{}).
			Select("id, name").Where("division_id = ?", parentID).
			Order("name ASC").Scan(&rows).Error
	case locType == "upazila" && parentID != "":
		err = h.DB.Model(&models.Upazila{}).
			Select("id, name").Where("district_id = ?", parentID).
			Order("name ASC").Scan(&rows).Error
	case locType == "union" && parentID != "":
		err = h.DB.Model(&models.Union{}).
			Select("id, name").Where("upazila_id = ?", parentID).
			Order("name ASC").Scan(&rows).Error
	case locType == "center" && parentID != "":
		err = h.DB.Model(&models.VoteCenter{}).
			Select("id, name").Where("union_id = ?", parentID).
			Order("name ASC").Scan(&rows).Error
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list locations")
		return
	}

	util.Success(c, util.Response{"type": locType, "data": rows})
}

type locationReq struct {
	Type           string `json:"type" binding:"required,oneof=division district constituency upazila union center"`
	Name           string `json:"name" binding:"required"`
	ParentID       string `json:"parent_id"`
	SeatNumber     string `json:"seat_number"`     // constituency only
	ConstituencyID string `json:"constituency_id"` // upazila only, optional overlay attachment
}

// CreateLocation creates one node at the requested level.
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req locationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := util.ValidateLocationName(req.Name); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if req.Type != "division" && req.ParentID == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "parent_id is required")
		return
	}

	var (
		id  string
		err error
	)
	switch req.Type {
	case "division":
		node := models.Division{Name: req.Name}
		err = h.DB.Create(&node).Error
		id = node.ID
	case "district":
		node := models.District{Name: req.Name, DivisionID: req.ParentID}
		err = h.DB.Create(&node).Error
		id = node.ID
	case "constituency":
		node := models.Constituency{Name: req.Name, DistrictID: req.ParentID, SeatNumber: optional(req.SeatNumber)}
		err = h.DB.Create(&node).Error
		id = node.ID
	case "upazila":
		node := models.Upazila{Name: req.Name, DistrictID: req.ParentID, ConstituencyID: optional(req.ConstituencyID)}
		err = h.DB.Create(&node).Error
		id = node.ID
	case "union":
		node := models.Union{Name: req.Name, UpazilaID: req.ParentID}
		err = h.DB.Create(&node).Error
		id = node.ID
	case "center":
		node := models.VoteCenter{Name: req.Name, UnionID: req.ParentID}
		err = h.DB.Create(&node).Error
		id = node.ID
	}
	if err != nil {
		util.Error(c, http.StatusConflict, util.CodeIntegrity,
			"could not create location: name must be unique within its parent and the parent must exist")
		return
	}

	util.Success(c, util.Response{"id": id, "name": req.Name, "type": req.Type})
}

type locationUpdateReq struct {
	Type           string `json:"type" binding:"required,oneof=division district constituency upazila union center"`
	Name           string `json:"name" binding:"required"`
	SeatNumber     string `json:"seat_number"`
	ConstituencyID string `json:"constituency_id"`
}

// UpdateLocation renames a node; for constituencies it may also set the
// seat number, and for upazilas the overlay attachment.
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	id := c.Param("id")

	var req locationUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := util.ValidateLocationName(req.Name); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	var res *gorm.DB
	switch req.Type {
	case "division":
		res = h.DB.Model(&models.Division{}).Where("id = ?", id).
			Update("name", req.Name)
	case "district":
		res = h.DB.Model(&models.District{}).Where("id = ?", id).
			Update("name", req.Name)
	case "constituency":
		res = h.DB.Model(&models.Constituency{}).Where("id = ?", id).
			Updates(map[string]interface{}{"name": req.Name, "seat_number": optional(req.SeatNumber)})
	case "upazila":
		res = h.DB.Model(&models.Upazila{}).Where("id = ?", id).
			Updates(map[string]interface{}{"name": req.Name, "constituency_id": optional(req.ConstituencyID)})
	case "union":
		res = h.DB.Model(&models.Union{}).Where("id = ?", id).
			Update("name", req.Name)
	case "center":
		res = h.DB.Model(&models.VoteCenter{}).Where("id = ?", id).
			Update("name", req.Name)
	}
	if res.Error != nil {
		util.Error(c, http.StatusConflict, util.CodeIntegrity, "could not update location")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "location not found")
		return
	}

	util.Success(c, util.Response{"id": id, "name": req.Name, "type": req.Type})
}

// DeleteLocation deletes one node after verifying nothing depends on it.
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	locType := c.Query("type")
	id := c.Query("id")
	if locType == "" || id == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "type and id are required")
		return
	}

	var (
		dependents int64
		reason     string
		err        error
	)
	switch locType {
	case "division":
		err = h.DB.Model(&models.District{}).Where("division_id = ?", id).Count(&dependents).Error
		reason = "division still has districts"
	case "district":
		err = h.DB.Model(&models.Upazila{}).Where("district_id = ?", id).Count(&dependents).Error
		reason = "district still has upazilas"
		if err == nil && dependents == 0 {
			err = h.DB.Model(&models.Constituency{}).Where("district_id = ?", id).Count(&dependents).Error
			reason = "district still has constituencies"
		}
	case "constituency":
		// the overlay detaches, it never blocks; upazilas and candidates are set loose
		dependents = 0
	case "upazila":
		err = h.DB.Model(&models.Union{}).Where("upazila_id = ?", id).Count(&dependents).Error
		reason = "upazila still has unions"
	case "union":
		err = h.DB.Model(&models.VoteCenter{}).Where("union_id = ?", id).Count(&dependents).Error
		reason = "union still has vote centers"
	case "center":
		err = h.DB.Model(&models.VoteEntry{}).Where("center_id = ?", id).Count(&dependents).Error
		reason = "center still has vote entries"
	default:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown location type")
		return
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check dependents")
		return
	}
	if dependents > 0 {
		util.Error(c, http.StatusConflict, util.CodeIntegrity, "cannot delete: "+reason)
		return
	}

	switch locType {
	case "division":
		err = h.DB.Delete(&models.Division{}, "id = ?", id).Error
	case "district":
		err = h.DB.Delete(&models.District{}, "id = ?", id).Error
	case "constituency":
		err = h.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Upazila{}).
				Where("constituency_id = ?", id).
				Update("constituency_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Candidate{}).
				Where("constituency_id = ?", id).
				Update("constituency_id", nil).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Constituency{}, "id = ?", id).Error
		})
	case "upazila":
		err = h.DB.Delete(&models.Upazila{}, "id = ?", id).Error
	case "union":
		err = h.DB.Delete(&models.Union{}, "id = ?", id).Error
	case "center":
		err = h.DB.Delete(&models.VoteCenter{}, "id = ?", id).Error
	}
	if err != nil {
		util.Error(c, http.StatusConflict, util.CodeIntegrity,
			"cannot delete: the location is still referenced")
		return
	}

	util.Success(c, util.Response{"message": "location deleted"})
}
