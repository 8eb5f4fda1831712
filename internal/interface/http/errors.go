package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/internal/application"
	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/helpers"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/response"
)

// writeServiceError maps application errors onto HTTP replies. action names
// the operation for not-found and internal messages, e.g. "update".
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error, action string) {
	switch {
	case errors.Is(err, application.ErrEmailTaken):
		response.Error(c, http.StatusConflict, "Email already registered", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, application.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, application.ErrProductNotFound):
		msg := "Product not found"
		if action == "update" || action == "delete" {
			msg = "Product not found or you don't have permission to " + action + " it"
		}
		response.Error(c, http.StatusNotFound, msg, nil)
	case errors.Is(err, application.ErrInvalidProduct):
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"payload": "price or rating out of range"})
	case errors.Is(err, application.ErrNothingToUpdate):
		response.Error(c, http.StatusBadRequest, "Nothing to update - no fields provided", nil)
	case errors.Is(err, entity.ErrInvalidSortField):
		response.Error(c, http.StatusBadRequest, "invalid query", map[string]string{"sortBy": "must be one of " + strings.Join(entity.SortFieldNames(), " ")})
	case errors.Is(err, entity.ErrInvalidSortOrder):
		response.Error(c, http.StatusBadRequest, "invalid query", map[string]string{"sortOrder": "must be one of ASC DESC"})
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"action":     action,
			"request_id": c.GetString("request_id"),
		})
		response.Error(c, http.StatusInternalServerError, "Failed to "+action, nil)
	}
}
