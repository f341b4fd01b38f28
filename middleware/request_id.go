package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkpost/comments/utils"
)

// RequestID assigns every request a correlation id, honoring one supplied by
// an upstream proxy, and echoes it in the response headers.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(utils.ContextRequestIDKey, id)
		ctx.Header("X-Request-ID", id)
		ctx.Next()
	}
}
