package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// ValidateUsername checks the 3-20 chars letters/digits/underscore rule.
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username must be 3-20 letters, digits or underscores")
	}
	return nil
}

// ValidateLocationName checks a hierarchy node name (non-empty, bounded).
func ValidateLocationName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if len(name) > 128 {
		return fmt.Errorf("name too long, max 128 characters")
	}
	return nil
}

// CoerceCount converts a raw submitted vote count to a non-negative
// integer. Malformed or negative input coerces to 0 rather than failing
// the submission; only the overall submission shape is validated upstream.
func CoerceCount(raw interface{}) int64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64: // JSON numbers decode as float64
		if v < 0 {
			return 0
		}
		return int64(v)
	case int:
		if v < 0 {
			return 0
		}
		return int64(v)
	case int64:
		if v < 0 {
			return 0
		}
		return v
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || n < 0 {
			return 0
		}
		return n
	default:
		return 0
	}
}

// IsStrongPassword checks 8-32 chars with upper, lower and digit.
func IsStrongPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 32 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
