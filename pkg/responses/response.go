// Package responses writes the JSON envelopes every handler answers with.
// Successful replies carry status "success"; errors carry "error" for client
// mistakes and "fail" for server faults.
package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuccessResponse wraps a successful payload.
type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the body of every non-2xx reply. Errors is only set for
// request validation failures and maps field names to what went wrong.
type ErrorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// PaginatedResponse wraps one page of a list.
type PaginatedResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	TotalItems   int64 `json:"total_items"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
	NextPage     *int  `json:"next_page,omitempty"`
	PreviousPage *int  `json:"previous_page,omitempty"`
}

// DefaultPageSize is used when a caller hands SendPaginated a non-positive size.
const DefaultPageSize = 20

// NewPagination derives the page links for page of size over total items.
func NewPagination(total int64, page, size int) Pagination {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	pages := int((total + int64(size) - 1) / int64(size))
	p := Pagination{
		TotalItems:  total,
		TotalPages:  pages,
		CurrentPage: page,
		PageSize:    size,
		HasNextPage: page < pages,
		HasPrevPage: page > 1,
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PreviousPage = &prev
	}
	return p
}

func SendSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	if message == "" {
		message = "OK"
	}
	c.JSON(statusCode, SuccessResponse{Status: "success", Message: message, Data: data})
}

// SendError aborts the request with an error envelope.
func SendError(c *gin.Context, statusCode int, message string) {
	sendError(c, ErrorResponse{Message: message, Code: statusCode})
}

func sendError(c *gin.Context, body ErrorResponse) {
	body.Status = "error"
	if body.Code >= http.StatusInternalServerError {
		body.Status = "fail"
	}
	if body.Message == "" {
		body.Message = http.StatusText(body.Code)
	}
	c.AbortWithStatusJSON(body.Code, body)
}

func SendPaginated(c *gin.Context, statusCode int, message string, data interface{}, totalItems int64, currentPage int, pageSize int) {
	if message == "" {
		message = "Data retrieved successfully"
	}
	c.JSON(statusCode, PaginatedResponse{
		Status:     "success",
		Message:    message,
		Data:       data,
		Pagination: NewPagination(totalItems, currentPage, pageSize),
	})
}

// NotFound sends a 404 naming the missing resource.
func NotFound(c *gin.Context, resourceName string) {
	SendError(c, http.StatusNotFound, resourceName+" not found")
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	SendError(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You are not allowed to perform this action"
	}
	SendError(c, http.StatusForbidden, message)
}

func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	SendError(c, http.StatusBadRequest, message)
}

// ValidationFailed sends a 400 listing the offending fields.
func ValidationFailed(c *gin.Context, message string, fields map[string]string) {
	if message == "" {
		message = "Invalid request payload"
	}
	sendError(c, ErrorResponse{Message: message, Code: http.StatusBadRequest, Errors: fields})
}

// Conflict sends a 409. Clients are expected to re-read and retry.
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "The record changed concurrently, please try again"
	}
	SendError(c, http.StatusConflict, message)
}

func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "An unexpected error occurred on the server"
	}
	SendError(c, http.StatusInternalServerError, message)
}
