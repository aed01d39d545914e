package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/herbolario-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the service error taxonomy onto HTTP statuses so
// a client can tell "fix your input" from "it's gone" from "try again later".
func RespondServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	var cErr *services.ConflictError

	switch {
	case errors.As(err, &vErr):
		RespondError(c, http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.As(err, &cErr):
		RespondError(c, http.StatusConflict, "duplicate_slug", err)
	case errors.Is(err, services.ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	default:
		RespondError(c, http.StatusInternalServerError, "persistence_failed", err)
	}
}
