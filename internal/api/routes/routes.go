package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medvoice/notetaker/internal/api/handlers"
)

type Deps struct {
	Note *handlers.NoteHandler
}

// RegisterRoutes mounts the API under the configured prefix.
func RegisterRoutes(r *gin.Engine, prefix string, d Deps) {
	api := r.Group(prefix)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.POST("/note/transcribe", d.Note.Transcribe)
	api.POST("/note/summarize", d.Note.Summarize)
}
