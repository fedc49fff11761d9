package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/cherrytrack/internal/server/http/dto"
)

const msgVerified = "验证成功"

// AuthHandler verifies staff passcodes.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Verify handles POST /api/auth.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, msgBadBody)
		return
	}

	role, token, err := h.facade.Authenticate(c.Request.Context(), req.Passcode, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Success: true,
		Message: msgVerified,
		Role:    string(role),
		Token:   token,
	})
}
