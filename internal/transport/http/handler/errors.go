package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/password"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer = "Internal server error"
	codeValidation    = "ValidationError"
)

var statusByError = []struct {
	err    error
	status int
}{
	{domain.ErrInvalidCredentials, http.StatusBadRequest},
	{domain.ErrUserAlreadyExists, http.StatusConflict},
	{domain.ErrResourceNotFound, http.StatusNotFound},
	{domain.ErrMaxDistance, http.StatusBadRequest},
	{domain.ErrMaxNumberOfCheckIns, http.StatusConflict},
	{domain.ErrInvalidCoordinate, http.StatusBadRequest},
}

// respondError writes the status and {"error","code"} body for a business
// error. Anything else is logged and reported as a 500 without details.
func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": err.Error(), "code": domain.Code(err)})
			return
		}
	}
	if errors.Is(err, password.ErrTooLong) {
		respondInvalid(c, err)
		return
	}
	logger.ErrorContext(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
}

func respondInvalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
}
