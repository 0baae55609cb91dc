// Package web provides API routes for the web server.
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/r-4-e/Elura-Utility/pkg/database"
)

// BotInfo is what the API reports about the Discord side
type BotInfo interface {
	IsReady() bool
	GuildCount() int
	CommandCount() int
	Identity() (id, username string)
}

// StoreInfo reports the document store backend
type StoreInfo interface {
	Status() database.StoreStatus
}

// Status bundles the sources the API reads from. Nil fields are reported as offline.
type Status struct {
	Started time.Time
	Store   StoreInfo
	Bot     BotInfo
	Wizards interface{ Active() int }
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, st Status) {
	api := s.Group("/api")
	{
		api.GET("/status", st.statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", st.botInfoHandler)
	}
}

// statusHandler returns the bot and store status
func (st Status) statusHandler(c *gin.Context) {
	store := gin.H{"isOnline": false}
	if st.Store != nil {
		status := st.Store.Status()
		store = gin.H{
			"isOnline":   true,
			"backend":    status.Backend,
			"documents":  status.Documents,
			"connection": status.Connection,
		}
	}

	botOnline := st.Bot != nil && st.Bot.IsReady()

	wizards := 0
	if st.Wizards != nil {
		wizards = st.Wizards.Active()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"uptimeSeconds": int64(time.Since(st.Started).Seconds()),
		"store":         store,
		"bot": gin.H{
			"isOnline": botOnline,
		},
		"setupSessions": wizards,
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Elura Utility is running",
	})
}

// botInfoHandler returns information about the bot
func (st Status) botInfoHandler(c *gin.Context) {
	if st.Bot == nil || !st.Bot.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	id, username := st.Bot.Identity()

	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"username": username,
		"guilds":   st.Bot.GuildCount(),
		"commands": st.Bot.CommandCount(),
		"isReady":  true,
	})
}
