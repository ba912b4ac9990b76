// File: /controllers/helpers.go
package controllers

import (
	"errors"
	"fitcrew-api/services"
	"fitcrew-api/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError writes the envelope for a service error. Anything that is not a
// *services.ServiceError is attached to the context for ErrorHandler to log and
// answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var se *services.ServiceError
	if !errors.As(err, &se) {
		_ = c.Error(err)
		utils.SendError(c, http.StatusInternalServerError, "Server error")
		return
	}
	utils.SendError(c, statusFor(se.Kind), se.Message)
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, services.ErrInvalidInput),
		errors.Is(kind, services.ErrInvalidOperation),
		errors.Is(kind, services.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(kind, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(kind, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// bindJSON decodes the body into req and answers 400 when it cannot.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.SendValidationError(c, "Invalid request body")
		return false
	}
	return true
}
