// internal/server/respond.go

package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"opera-backend/internal/common/errors"
)

// bindJSONBytes decodes a body that has already been read for validation.
func bindJSONBytes(body []byte, v interface{}) error {
	return json.Unmarshal(body, v)
}

// respondData writes the success envelope the storefront expects.
func respondData(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError writes the error envelope and maps the error code to an HTTP
// status.
func respondError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	c.JSON(statusFor(code), gin.H{
		"success": false,
		"error":   string(code),
		"message": errors.MessageOf(err),
	})
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
