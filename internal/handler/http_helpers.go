package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/blogapi/internal/validation"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServerError reports err verbatim, as the store produced it.
func respondServerError(c *gin.Context, err error) {
	log.Printf("[api] request_id=%s %s %s: %v", RequestIDFrom(c), c.Request.Method, c.Request.URL.Path, err)
	respondError(c, http.StatusInternalServerError, err.Error())
}

// validateBody checks the raw body against schema and decodes it into dst.
// Bodies not sent as application/json are validated as {}.
// It writes the failure response itself and reports whether to continue.
func validateBody(c *gin.Context, schema validation.Schema, dst interface{}) bool {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	// 非 JSON 请求体按空对象处理
	if len(body) > 0 && !strings.EqualFold(c.ContentType(), gin.MIMEJSON) {
		body = nil
	}

	if err := schema.Validate(body, dst); err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Details})
		case errors.Is(err, validation.ErrMalformedBody):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondServerError(c, err)
		}
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}
