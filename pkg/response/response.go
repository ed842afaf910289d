package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pagination is the listing metadata block. Total counts the filtered set;
// Count is the number of records actually returned.
type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Count  int   `json:"count"`
}

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       any         `json:"data,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func Success(c *gin.Context, status int, message string, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func SuccessWithCount(c *gin.Context, status int, message string, data any, count int) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data, Count: &count})
}

func SuccessWithPagination(c *gin.Context, status int, message string, data any, p Pagination) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data, Pagination: &p})
}

func Error(c *gin.Context, status int, message string, errs []string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, Envelope{Success: false, Message: message, Errors: errs})
}
