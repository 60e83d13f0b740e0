package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps the request body at n bytes and answers 413 when it is
// larger. It reads multipart bodies up front, so it has to run before any
// middleware that looks at form values.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)

		if strings.HasPrefix(c.ContentType(), "multipart/") {
			var tooLarge *http.MaxBytesError
			if err := c.Request.ParseMultipartForm(n); errors.As(err, &tooLarge) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
				return
			}
		}
		c.Next()
	}
}
