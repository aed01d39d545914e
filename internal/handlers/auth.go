package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/herbolario-backend/internal/logger"
	"github.com/yungbote/herbolario-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		log:         log.With("handler", "AuthHandler"),
		authService: authService,
	}
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	token, ttl, err := h.authService.Login(c.Request.Context(), body.Password)
	if err != nil {
		h.log.Warn("Admin login rejected")
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"token":      token,
		"expires_in": int(ttl.Seconds()),
	})
}
