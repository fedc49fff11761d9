package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/cherrytrack/internal/domain/errors"
	"github.com/polkiloo/cherrytrack/internal/server/http/dto"
)

const (
	msgInternal  = "服务器内部错误"
	msgBadBody   = "请求格式错误"
	msgInvalidID = "无效的订单编号"
)

// statusFor maps a domain error kind to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrTrackingProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as the shared error body. Unclassified errors never
// leak their text to the client.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	message := msgInternal
	if status != http.StatusInternalServerError {
		message = domainErrors.Message(err, msgInternal)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message))
}

func writeBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(message))
}

func parseOrderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(c, msgInvalidID)
		return 0, false
	}
	return id, true
}
