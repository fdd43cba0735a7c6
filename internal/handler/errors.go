package handler

import (
	"errors"
	"net/http"

	"bookerp/internal/apperr"
	"bookerp/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses: missing entities
// to 404, duplicate keys to 409, business rule rejections to 400, and
// missing delivery configuration to 503. Anything unrecognized is a 500.
func respondError(c *gin.Context, err error) {
	var (
		notFound   *apperr.NotFoundError
		duplicate  *apperr.DuplicateKeyError
		invalid    *apperr.InvalidStateError
		stock      *apperr.InsufficientStockError
		blocked    *apperr.PartyBlockedError
		overdue    *apperr.OverdueBalanceError
		creditOver *apperr.CreditLimitExceededError
		config     *apperr.ConfigurationError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.As(err, &invalid),
		errors.As(err, &stock),
		errors.As(err, &blocked),
		errors.As(err, &overdue),
		errors.As(err, &creditOver):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.As(err, &config):
		c.JSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}

// currentUserID pulls the authenticated user's id set by the auth middleware.
func currentUserID(c *gin.Context) string {
	v, _ := c.Get("userID")
	id, _ := v.(string)
	return id
}
