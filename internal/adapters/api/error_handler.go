package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

// handleError maps application error types to HTTP status codes
func (s *HTTPServerAdapter) handleError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		s.logUnexpected(c, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	statusCode := http.StatusInternalServerError
	message := appErr.Message

	switch appErr.Type {
	case errors.ValidationError, errors.InvalidLocationError, errors.InvalidTimeFormatError:
		statusCode = http.StatusBadRequest
	case errors.NotFoundError, errors.LocationNotFoundError:
		statusCode = http.StatusNotFound
	case errors.ProviderError, errors.MalformedResponseError:
		statusCode = http.StatusBadGateway
	case errors.ConnectionError:
		statusCode = http.StatusServiceUnavailable
		message = "Weather service unavailable"
	default:
		s.logUnexpected(c, err)
		message = "Internal server error"
	}

	c.JSON(statusCode, ErrorResponse{Error: message, Type: appErr.Type.String()})
}

func (s *HTTPServerAdapter) logUnexpected(c *gin.Context, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Error("Request failed",
		ports.F("path", c.Request.URL.Path),
		ports.F("error", err))
}
