package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const welcomeHTML = "<h1>Welcome to the DB Version API!</h1><p>Go to /db_version to see the MariaDB version.</p>"

// Index is the handler for GET /
// It never touches the database.
func (h *Handlers) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(welcomeHTML))
}
