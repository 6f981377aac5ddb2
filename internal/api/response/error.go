package response

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/wonny/stockapp/internal/api/middleware"
	"github.com/wonny/stockapp/internal/domain/market"
	"github.com/wonny/stockapp/internal/domain/order"
)

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details
type ErrorDetail struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	Details   string             `json:"details,omitempty"`
	RequestID string             `json:"request_id"`
	Timestamp time.Time          `json:"timestamp"`
	Fields    []order.FieldError `json:"fields,omitempty"`
}

// Error codes
const (
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"

	ErrCodeDatabaseError = "DATABASE_ERROR"

	ErrCodeExternalAPIError   = "EXTERNAL_API_ERROR"
	ErrCodeExternalAPITimeout = "EXTERNAL_API_TIMEOUT"
)

// Error sends an error response
func Error(c *gin.Context, statusCode int, code, message string) {
	ErrorWithDetails(c, statusCode, code, message, "")
}

// ErrorWithDetails sends an error response with additional details
func ErrorWithDetails(c *gin.Context, statusCode int, code, message, details string) {
	resp := ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(c),
			Timestamp: time.Now(),
		},
	}

	event := log.Warn()
	if statusCode >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Str("request_id", resp.Error.RequestID).
		Str("error_code", code).
		Str("message", message).
		Str("details", details).
		Int("status", statusCode).
		Msg("API error response")

	c.JSON(statusCode, resp)
}

// ValidationError sends a 400 listing every violated field rule
func ValidationError(c *gin.Context, verr *order.ValidationError) {
	resp := ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrCodeValidation,
			Message:   "Request validation failed",
			RequestID: middleware.GetRequestID(c),
			Timestamp: time.Now(),
			Fields:    verr.Fields,
		},
	}

	log.Warn().
		Str("request_id", resp.Error.RequestID).
		Str("error_code", ErrCodeValidation).
		Int("field_count", len(verr.Fields)).
		Msg("Validation error")

	c.JSON(http.StatusBadRequest, resp)
}

// BadRequest sends a 400 Bad Request error
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, ErrCodeInvalidParameter, message)
}

// NotFound sends a 404 Not Found error
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError sends a 500 Internal Server Error
func InternalError(c *gin.Context, err error) {
	ErrorWithDetails(c, http.StatusInternalServerError, ErrCodeInternalServer, "An unexpected error occurred", errString(err))
}

// DatabaseError sends a database error response
func DatabaseError(c *gin.Context, err error) {
	ErrorWithDetails(c, http.StatusInternalServerError, ErrCodeDatabaseError, "Database operation failed", errString(err))
}

// ExternalAPIError sends an external API error response
func ExternalAPIError(c *gin.Context, serviceName string, err error) {
	message := "External service error"
	if serviceName != "" {
		message = serviceName + " service error"
	}

	status, code := http.StatusBadGateway, ErrCodeExternalAPIError
	if errors.Is(err, context.DeadlineExceeded) {
		status, code = http.StatusGatewayTimeout, ErrCodeExternalAPITimeout
	}
	ErrorWithDetails(c, status, code, message, errString(err))
}

// FromError maps a service error to its HTTP response
func FromError(c *gin.Context, err error) {
	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		ValidationError(c, verr)
	case errors.Is(err, order.ErrNullRequest):
		BadRequest(c, "Order request is required")
	case errors.Is(err, market.ErrInvalidSymbol):
		BadRequest(c, err.Error())
	case errors.Is(err, market.ErrProvider):
		ExternalAPIError(c, "Finnhub", err)
	case errors.Is(err, order.ErrStore):
		DatabaseError(c, err)
	default:
		InternalError(c, err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
