package utils

import (
	"errors"
	"net/http"

	"slotbook/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.Int("status", status), zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// StatusFor maps a domain error to its HTTP status and public message.
func StatusFor(err error) (int, string) {
	var (
		ve *models.ValidationError
		ce *models.ConflictError
		nf *models.NotFoundError
		pe *models.PermissionError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, "Invalid request"
	case errors.As(err, &ce):
		if ce.Kind == models.ConflictUserDoubleBooked {
			return http.StatusConflict, "You already have a booking at this time"
		}
		return http.StatusConflict, "This service is already booked at that time"
	case errors.As(err, &nf):
		return http.StatusNotFound, "Not found"
	case errors.As(err, &pe):
		return http.StatusForbidden, "Forbidden"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

// RespondError writes err using the status StatusFor picks. Internal details
// are logged but not returned.
func RespondError(c *gin.Context, err error) {
	status, message := StatusFor(err)
	if status == http.StatusInternalServerError {
		GetLogger().Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		JSONError(c, status, message, "")
		return
	}
	JSONError(c, status, message, err.Error())
}
