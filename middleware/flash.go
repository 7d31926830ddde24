package middleware

import (
	"log"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type FlashMessage struct {
	Category string
	Message  string
}

// Flash queues a notice for the next rendered page.
func Flash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(category + ":" + message)
	if err := session.Save(); err != nil {
		log.Printf("cannot save flash: %v", err)
	}
}

// Flashes pops every queued notice.
func Flashes(c *gin.Context) []FlashMessage {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		log.Printf("cannot save session: %v", err)
	}

	out := make([]FlashMessage, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		category, message, found := strings.Cut(s, ":")
		if !found {
			category, message = "info", s
		}
		out = append(out, FlashMessage{Category: category, Message: message})
	}
	return out
}
