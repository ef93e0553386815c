package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit limita o tamanho do corpo das requisições. A leitura além do limite
// falha e o bind da requisição responde 400.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
