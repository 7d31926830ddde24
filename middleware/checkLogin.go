package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

const LoginPath = "/user/login"

// CheckLoginMiddleware sends anonymous actors to the login page.
func CheckLoginMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("UserID"); !exists {
			Flash(c, "info", "Please log in to access this page.")
			c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Next()
	}
}
