package middleware

import (
	"ezproduct/internal/i18n"

	"github.com/gin-gonic/gin"
)

const LangKey = "lang"

// Language stores the negotiated i18n.Lang on the context.
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		param := c.Query("lang")
		if param == "" {
			param = c.PostForm("lang")
		}
		c.Set(LangKey, i18n.Negotiate(param, c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func Lang(c *gin.Context) i18n.Lang {
	if v, ok := c.Get(LangKey); ok {
		if lang, ok := v.(i18n.Lang); ok {
			return lang
		}
	}
	return i18n.English
}
