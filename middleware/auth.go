package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/The-Grit-Agencies/food-court-g4/jwt"
	"github.com/The-Grit-Agencies/food-court-g4/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Session entries: the login token and whether the login asked to be remembered.
const (
	SessionTokenKey    = "token"
	SessionRememberKey = "remember"
)

const rememberFor = 30 * 24 * time.Hour

// SessionOptions is the cookie lifetime of a session. Without remember the cookie ends
// with the browser.
func SessionOptions(remember bool) sessions.Options {
	options := sessions.Options{Path: "/", HttpOnly: true}
	if remember {
		options.MaxAge = int(rememberFor.Seconds())
	}
	return options
}

// bearerToken prefers the Authorization header over the session cookie.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != "" && token != authHeader {
		return token, false
	}

	session := sessions.Default(c)
	token, _ := session.Get(SessionTokenKey).(string)
	return token, true
}

// AuthMiddleware identifies the actor. Anonymous requests pass through without
// "UserID" and "Role" set.
func AuthMiddleware(db *gorm.DB, keys *jwt.Keys) gin.HandlerFunc {
	return func(c *gin.Context) {
		// every save of this request keeps the lifetime chosen at login
		session := sessions.Default(c)
		remember, _ := session.Get(SessionRememberKey).(bool)
		session.Options(SessionOptions(remember))

		token, fromSession := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		userID, role, err := keys.VerifyToken(c.Request.Context(), token, db)
		if err != nil {
			log.Printf("cannot verify token: %v", err)
			if fromSession {
				session.Delete(SessionTokenKey)
				session.Delete(SessionRememberKey)
				if err := session.Save(); err != nil {
					log.Printf("cannot save session: %v", err)
				}
			}
			c.Next()
			return
		}

		c.Set("Token", token)
		c.Set("UserID", userID)
		c.Set("Role", role)
		c.Next()
	}
}

// CurrentActor returns the actor set by AuthMiddleware, or the anonymous actor.
func CurrentActor(c *gin.Context) services.Actor {
	userID := c.GetUint("UserID")
	if userID == 0 {
		return services.Actor{}
	}
	return services.Actor{UserID: userID, Role: c.GetString("Role")}
}
