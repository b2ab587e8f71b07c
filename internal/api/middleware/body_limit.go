package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/j4v3l/Duty-Tracker/pkg/response"
)

// BodyLimit 请求体大小限制中间件，群聊文本导入同样受此约束
// maxBytes<=0 时不限制
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			response.PayloadTooLarge(c)
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
