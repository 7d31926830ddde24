package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckRoleMiddleware lets only actors with role through. Anyone else is sent home with a
// notice and the handler never runs.
func CheckRoleMiddleware(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("UserID"); !exists {
			Flash(c, "info", "Please log in to access this page.")
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		if c.GetString("Role") != role {
			Flash(c, "danger", "Access unauthorized!")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}
