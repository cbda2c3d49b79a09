package handlers

import (
	"YouthHealth/middlewares"
	"YouthHealth/models"
	"YouthHealth/repositories"
	"YouthHealth/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// respondError maps service errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verrs validation.Errors
	var verr validation.Error
	switch {
	case errors.As(err, &verrs), errors.As(err, &verr),
		errors.Is(err, models.ErrCompletedAtWithoutCompletion),
		errors.Is(err, models.ErrStartedAtBeforeStart):
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, services.ErrInvalidCredentials):
		middlewares.HttpError(c, "Invalid email or password", http.StatusUnauthorized, err)
	case errors.Is(err, services.ErrForbidden):
		middlewares.HttpError(c, "Forbidden", http.StatusForbidden, err)
	case errors.Is(err, repositories.ErrNotFound):
		middlewares.HttpError(c, "Not found", http.StatusNotFound, err)
	case errors.Is(err, repositories.ErrConflict):
		middlewares.HttpError(c, err.Error(), http.StatusConflict, err)
	default:
		middlewares.HttpError(c, "Internal server error", http.StatusInternalServerError, err)
	}
}

func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return false
	}
	return true
}

func currentUserID(c *gin.Context) (string, bool) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.HttpError(c, "Unauthorized", http.StatusUnauthorized, err)
		return "", false
	}
	return userID, true
}
