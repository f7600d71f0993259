package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeats/internal/utils"
)

// ErrorDetails lets handlers include internal error text in 5xx bodies.
func ErrorDetails(show bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(utils.CtxShowErrorDetails, show)
		c.Next()
	}
}
