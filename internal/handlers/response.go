package handlers

import (
	"github.com/cliptube/cliptube/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

// respondError maps the error's taxonomy entry to its HTTP status and emits
// the envelope with the error text as message.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	c.JSON(status, Response{
		StatusCode: status,
		Message:    err.Error(),
	})
}
