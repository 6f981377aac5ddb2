package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wonny/stockapp/internal/api/middleware"
)

// SuccessResponse represents a successful API response
type SuccessResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// Meta represents metadata in response
type Meta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
	Count     int       `json:"count,omitempty"`
}

func meta(c *gin.Context) Meta {
	return Meta{
		RequestID: middleware.GetRequestID(c),
		Timestamp: time.Now(),
	}
}

// Success sends a successful response with data
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Data: data, Meta: meta(c)})
}

// SuccessList sends a list with its count
func SuccessList(c *gin.Context, data any, count int) {
	m := meta(c)
	m.Count = count
	c.JSON(http.StatusOK, SuccessResponse{Data: data, Meta: m})
}

// Created sends a 201 Created response
func Created(c *gin.Context, data any, message string) {
	m := meta(c)
	m.Message = message
	c.JSON(http.StatusCreated, SuccessResponse{Data: data, Meta: m})
}
