package handlers

import (
	"github.com/01moynul/dbversion-api/internal/database"
)

// Handlers struct holds all dependencies for our handlers. It carries no
// request state; each request opens and closes its own session through DB.
type Handlers struct {
	DB database.Connector
}
