package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditMiddleware records every mutating request of an authenticated user
// as an audit-log row.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// reads are not audited
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" {
			c.Next()
			return
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		user := CurrentUser(c)
		if user == nil {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < 2000 {
			if body := sanitizeBody(bodyBytes); body != "" {
				action += " " + body
			}
		}

		entry := models.AuditLog{
			UserID:    &user.ID,
			Method:    c.Request.Method,
			Path:      path,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&entry).Error
	}
}

// sanitizeBody redacts credential fields before the body reaches the
// audit table. Audit rows must never hold a usable password. Bodies that
// are not a JSON object are dropped rather than stored unchecked.
func sanitizeBody(raw []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	for key := range payload {
		if strings.Contains(strings.ToLower(key), "password") {
			payload[key] = "[REDACTED]"
		}
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(out)
}
