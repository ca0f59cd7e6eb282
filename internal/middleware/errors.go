package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nfsindex/internal/domain/dto"
)

// ErrorHandler turns errors attached with c.Error into a JSON ErrorResponse
// when the handler did not write a response itself.
//
// A dto.ErrorResponse error is written as is; any other error becomes a 500.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	var resp dto.ErrorResponse
	if errors.As(err, &resp) {
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err))
}

// AbortWithError stops the chain and writes a standardized error body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	resp := dto.NewErrorResponse(message, err)
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, resp)
}
