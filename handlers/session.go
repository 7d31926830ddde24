package handlers

import (
	"log"
	"time"

	"github.com/The-Grit-Agencies/food-court-g4/jwt"
	"github.com/The-Grit-Agencies/food-court-g4/middleware"
	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Sessions issues and revokes login tokens kept in the cookie session.
type Sessions struct {
	DB   *gorm.DB
	Keys *jwt.Keys
	TTL  time.Duration
}

func (s *Sessions) start(c *gin.Context, user *models.User, remember bool) error {
	token, err := s.Keys.IssueLoginToken(c.Request.Context(), s.DB, user.ID, user.Role, s.TTL)
	if err != nil {
		return err
	}

	session := sessions.Default(c)
	session.Options(middleware.SessionOptions(remember))
	session.Set(middleware.SessionTokenKey, token)
	session.Set(middleware.SessionRememberKey, remember)
	return session.Save()
}

func (s *Sessions) end(c *gin.Context) {
	if token := c.GetString("Token"); token != "" {
		if err := jwt.RevokeToken(c.Request.Context(), s.DB, token); err != nil {
			log.Printf("cannot revoke token: %v", err)
		}
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("cannot save session: %v", err)
	}
}
