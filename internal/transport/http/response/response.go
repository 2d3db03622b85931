package response

import (
	"github.com/gin-gonic/gin"

	"bookstore/internal/apperr"
)

// Verbose controls whether error bodies carry the internal cause.
// Set once at boot; never enabled in production.
var Verbose bool

// Data is the read envelope.
func Data(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

// Message is the mutation envelope.
func Message(c *gin.Context, status int, msg string, data any) {
	body := gin.H{"message": msg}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// Page is the collection envelope.
type Page struct {
	Count       int   `json:"count"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Data        any   `json:"data"`
}

func Paged(c *gin.Context, status, count int, total int64, totalPages, currentPage int, data any) {
	c.JSON(status, Page{
		Count:       count,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		Data:        data,
	})
}

// Fail maps an error to its HTTP status. Internal detail is attached only
// when Verbose is on.
func Fail(c *gin.Context, err error) {
	body := gin.H{"message": err.Error()}
	if Verbose {
		if d := apperr.Detail(err); d != "" {
			body["error"] = d
		}
	}
	c.AbortWithStatusJSON(apperr.Status(err), body)
}
