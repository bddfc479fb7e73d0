package handler

import (
	"net/http"
	"strings"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler serves admin-only user management, including vote-center
// assignment. Assignment lives on the center row (one nullable FK), so
// reassignment never rewrites history, only future policy checks.
type UserHandler struct {
	DB         *gorm.DB
	BcryptCost int
}

func NewUserHandler(db *gorm.DB, bcryptCost int) *UserHandler {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserHandler{DB: db, BcryptCost: bcryptCost}
}

type userReq struct {
	Username  string   `json:"username" binding:"required"`
	Password  string   `json:"password"`
	Role      string   `json:"role" binding:"required,oneof=ADMIN SUB_USER"`
	Email     string   `json:"email"`
	Mobile    string   `json:"mobile"`
	CenterIDs []string `json:"center_ids"`
}

func userResp(u *models.User) gin.H {
	centers := make([]gin.H, 0, len(u.AssignedCenters))
	for _, center := range u.AssignedCenters {
		centers = append(centers, gin.H{"id": center.ID, "name": center.Name})
	}
	return gin.H{
		"id":               u.ID,
		"username":         u.Username,
		"role":             u.Role,
		"email":            u.Email,
		"mobile":           u.Mobile,
		"created_at":       u.CreatedAt,
		"assigned_centers": centers,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ListUsers returns all users with their assigned centers.
func (h *UserHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Preload("AssignedCenters").
		Order("username ASC").
		Find(&users).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list users")
		return
	}

	items := make([]gin.H, 0, len(users))
	for i := range users {
		items = append(items, userResp(&users[i]))
	}
	util.Success(c, util.Response{"users": items})
}

// CreateUser creates a user and assigns the requested centers to them.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req userReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := util.ValidateUsername(req.Username); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if !util.IsStrongPassword(req.Password) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"password must be 8-32 characters with upper, lower and digit")
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", req.Username).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check username")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		Email:        optional(req.Email),
		Mobile:       optional(req.Mobile),
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return h.assignCenters(tx, user.ID, req.CenterIDs)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create user")
		return
	}

	util.Success(c, util.Response{"user": userResp(&user)})
}

// UpdateUser updates profile fields, optionally the password, and
// replaces the user's center assignment with the requested set.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := h.DB.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
		}
		return
	}

	var req userReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := util.ValidateUsername(req.Username); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	user.Username = req.Username
	user.Role = req.Role
	user.Email = optional(req.Email)
	user.Mobile = optional(req.Mobile)

	if strings.TrimSpace(req.Password) != "" {
		if !util.IsStrongPassword(req.Password) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
				"password must be 8-32 characters with upper, lower and digit")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
			return
		}
		user.PasswordHash = string(hash)
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return h.assignCenters(tx, user.ID, req.CenterIDs)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update user")
		return
	}

	util.Success(c, util.Response{"user": userResp(&user)})
}

// assignCenters releases the user's current centers and claims the
// requested ones. Centers already owned by another user are skipped, not
// stolen.
func (h *UserHandler) assignCenters(tx *gorm.DB, userID string, centerIDs []string) error {
	if err := tx.Model(&models.VoteCenter{}).
		Where("assigned_to_user_id = ?", userID).
		Update("assigned_to_user_id", nil).Error; err != nil {
		return err
	}
	if len(centerIDs) == 0 {
		return nil
	}
	return tx.Model(&models.VoteCenter{}).
		Where("id IN ? AND assigned_to_user_id IS NULL", centerIDs).
		Update("assigned_to_user_id", userID).Error
}

// DeleteUser removes a user after releasing their centers. Vote entries
// they submitted survive with a nulled submitter.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	actor := currentUser(c)
	if actor != nil && actor.ID == id {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot delete your own account")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.VoteCenter{}).
			Where("assigned_to_user_id = ?", id).
			Update("assigned_to_user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.VoteEntry{}).
			Where("submitted_by_user_id = ?", id).
			Update("submitted_by_user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete user")
		return
	}

	util.Success(c, util.Response{"message": "user deleted"})
}
