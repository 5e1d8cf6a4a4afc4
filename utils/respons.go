package utils

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the {"detail": ...} error body API clients expect.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func RespondJSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

func RespondError(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, ErrorResponse{Detail: err.Error()})
}

func RespondDetail(c *gin.Context, code int, detail string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Detail: detail})
}
