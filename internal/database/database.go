package database

import (
	"context"
	"database/sql"
	"net"
	"strconv"
	"sync"

	"github.com/01moynul/dbversion-api/internal/config"
	"github.com/01moynul/dbversion-api/internal/metrics"
	"github.com/01moynul/dbversion-api/internal/models"
	"github.com/go-sql-driver/mysql"
)

// versionQuery asks the server for its version string as a single row with
// a single "version" column.
const versionQuery = "SELECT VERSION() AS version"

// Connector opens a dedicated session to the database server.
type Connector interface {
	Connect(ctx context.Context) (Conn, error)
}

// Conn is one live session. It belongs to whoever called Connect and must
// be closed by them.
type Conn interface {
	ServerVersion(ctx context.Context) (models.DBVersion, error)
	Close() error
}

// SQLConnector opens sessions through database/sql. Every Connect produces
// its own handle limited to a single underlying connection; nothing is
// pooled across calls.
type SQLConnector struct {
	driverName string
	dsn        string
	metrics    *metrics.Metrics
}

// NewConnector builds a MySQL/MariaDB connector from the resolved config.
func NewConnector(cfg config.DB, m *metrics.Metrics) *SQLConnector {
	return NewConnectorWithDSN("mysql", FormatDSN(cfg), m)
}

// NewConnectorWithDSN is the generic form used for any registered
// database/sql driver.
func NewConnectorWithDSN(driverName, dsn string, m *metrics.Metrics) *SQLConnector {
	return &SQLConnector{driverName: driverName, dsn: dsn, metrics: m}
}

// FormatDSN renders the connection parameters as a go-sql-driver/mysql DSN.
func FormatDSN(cfg config.DB) string {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Name
	return mc.FormatDSN()
}

// Connect establishes a session. sql.Open is lazy, so the ping is what
// actually dials and authenticates. Any failure comes back as a
// *ConnectionError and leaves nothing open.
func (c *SQLConnector) Connect(ctx context.Context) (Conn, error) {
	db, err := sql.Open(c.driverName, c.dsn)
	if err != nil {
		c.connectFailed()
		return nil, &ConnectionError{Err: err}
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		c.connectFailed()
		return nil, &ConnectionError{Err: err}
	}

	if c.metrics != nil {
		c.metrics.DBConnectionsOpened.Inc()
		c.metrics.DBOpenConnections.Inc()
	}

	return &session{db: db, metrics: c.metrics}, nil
}

func (c *SQLConnector) connectFailed() {
	if c.metrics != nil {
		c.metrics.DBConnectionFailures.Inc()
	}
}

type session struct {
	db      *sql.DB
	metrics *metrics.Metrics

	closeOnce sync.Once
	closeErr  error
}

// ServerVersion runs the version query and scans its only row.
func (s *session) ServerVersion(ctx context.Context) (models.DBVersion, error) {
	var v models.DBVersion
	if err := s.db.QueryRowContext(ctx, versionQuery).Scan(&v.Version); err != nil {
		if s.metrics != nil {
			s.metrics.DBQueryFailures.Inc()
		}
		return models.DBVersion{}, &QueryError{Err: err}
	}
	return v, nil
}

// Close releases the session. Later calls return the first result.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
		if s.metrics != nil {
			s.metrics.DBOpenConnections.Dec()
		}
	})
	return s.closeErr
}
