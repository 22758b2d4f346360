package database

import (
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

type driverLogger struct {
	log zerolog.Logger
}

func (l driverLogger) Print(v ...interface{}) {
	l.log.Warn().Str("component", "mysql").Msg(fmt.Sprint(v...))
}

// SetDriverLogger sends go-sql-driver/mysql's internal diagnostics, which
// otherwise go to stderr, through l.
func SetDriverLogger(l zerolog.Logger) error {
	return mysql.SetLogger(driverLogger{log: l})
}
