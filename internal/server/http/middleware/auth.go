package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/cherrytrack/internal/domain/model"
	pkgAuth "github.com/polkiloo/cherrytrack/internal/pkg/auth"
	"github.com/polkiloo/cherrytrack/internal/server/http/dto"
)

// RoleContextKey is a gin context key for the authenticated staff role.
const RoleContextKey = "role"

const msgLoginRequired = "请先登录"

// TokenParser resolves a bearer token into a staff role.
type TokenParser interface {
	ParseToken(token string) (model.Role, error)
}

// RoleRequired ensures the caller presents a valid role token. When enforce
// is false a valid token is still recorded but its absence is tolerated.
func RoleRequired(parser TokenParser, enforce bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			if enforce {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(msgLoginRequired))
				return
			}
			c.Next()
			return
		}

		role, err := parser.ParseToken(token)
		if err != nil {
			if !enforce {
				c.Next()
				return
			}
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(msgLoginRequired))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("服务器内部错误"))
			return
		}

		c.Set(RoleContextKey, role)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
