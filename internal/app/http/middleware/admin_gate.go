package middleware

import (
	"net/http"
	"time"

	"portfolio-site/internal/domain/admintoken"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const LoginPath = "/admin-secu"

// AdminGate lets a request through only with a valid admin-auth cookie.
// Anything else is sent to the login page without an explanation.
func AdminGate(secret func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(admintoken.CookieName)
		if err := admintoken.Verify(secret(), token, time.Now()); err != nil {
			zap.L().Debug("admin gate rejected request",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Set("isAdmin", true)
		c.Next()
	}
}
