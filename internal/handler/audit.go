package handler

import (
	"net/http"
	"strconv"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"
	"github.com/zoynulabedin/non-government-vote-count-result/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditHandler lists the audit trail for admins, newest first.
type AuditHandler struct {
	DB *gorm.DB
}

func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{DB: db}
}

func (h *AuditHandler) ListLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if size <= 0 || size > 200 {
		size = 50
	}

	query := h.DB.Model(&models.AuditLog{})
	if userID := c.Query("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to count logs")
		return
	}

	var logs []models.AuditLog
	if err := query.Session(&gorm.Session{}).
		Order("id DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&logs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list logs")
		return
	}

	util.Success(c, util.Response{
		"logs":  logs,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
