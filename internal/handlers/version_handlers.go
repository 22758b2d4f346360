package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// GetDBVersion is the handler for GET /db_version
// It opens a fresh session, asks the server for its version and closes the
// session again before returning, whatever happened in between.
func (h *Handlers) GetDBVersion(c *gin.Context) {
	ctx := c.Request.Context()
	log := zerolog.Ctx(ctx)

	// 1. --- Connect ---
	conn, err := h.DB.Connect(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error connecting to database")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed"})
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing database connection")
		}
	}()

	// 2. --- Query ---
	version, err := conn.ServerVersion(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Version query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, version)
}
