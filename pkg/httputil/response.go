// Package httputil provides HTTP response helpers and shared middleware.
package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiaoxiao0301/artist-atlas/pkg/errors"
)

// Response represents a standard API response.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	RequestID string      `json:"request_id"`
}

// ErrorInfo represents error information in the response.
type ErrorInfo struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse sends a successful response.
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success:   true,
		Data:      data,
		RequestID: GetRequestID(c),
	})
}

// CreatedResponse sends a 201 response with the created resource.
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success:   true,
		Data:      data,
		RequestID: GetRequestID(c),
	})
}

// ErrorResponse sends an error response.
func ErrorResponse(c *gin.Context, err error) {
	appErr, ok := err.(*errors.Error)
	if !ok {
		// Unknown error - treat as internal error, never leak internals
		appErr = errors.ErrInternal.WithError(err)
	}

	c.JSON(appErr.HTTPStatus, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
		RequestID: GetRequestID(c),
	})
}

// PaginationResponse represents a paginated response.
type PaginationResponse struct {
	Success    bool           `json:"success"`
	Data       interface{}    `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
	RequestID  string         `json:"request_id"`
}

// PaginationInfo holds pagination metadata.
type PaginationInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedResponse sends a paginated response.
// Total is the number of records matching the filter before pagination.
func PaginatedResponse(c *gin.Context, data interface{}, page, limit int, total int64) {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, PaginationResponse{
		Success: true,
		Data:    data,
		Pagination: PaginationInfo{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
		RequestID: GetRequestID(c),
	})
}

// GetRequestID retrieves or generates a request ID.
func GetRequestID(c *gin.Context) string {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return requestID
}

// BindAndValidate binds JSON request data onto obj.
func BindAndValidate(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return errors.ErrInvalidInput.WithError(err)
	}
	return nil
}
