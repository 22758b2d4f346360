package database

import (
	"context"
	"errors"
	"net"
	"regexp"
	"testing"

	"github.com/01moynul/dbversion-api/internal/config"
	"github.com/01moynul/dbversion-api/internal/metrics"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMock registers a sqlmock connection under a DSN unique to the test.
func newMock(t *testing.T) (string, sqlmock.Sqlmock) {
	t.Helper()
	dsn := "sqlmock_" + t.Name()
	db, mock, err := sqlmock.NewWithDSN(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return dsn, mock
}

// closedPort returns a local TCP port nothing is listening on.
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestFormatDSN(t *testing.T) {
	dsn := FormatDSN(config.DB{Host: "db.internal", Port: 3307, User: "app", Password: "pw", Name: "mysql"})

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.internal:3307", parsed.Addr)
	assert.Equal(t, "app", parsed.User)
	assert.Equal(t, "pw", parsed.Passwd)
	assert.Equal(t, "mysql", parsed.DBName)
}

func TestServerVersion(t *testing.T) {
	dsn, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(versionQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("11.2.0-MariaDB"))
	mock.ExpectClose()

	m := metrics.New()
	conn, err := NewConnectorWithDSN("sqlmock", dsn, m).Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DBOpenConnections))

	v, err := conn.ServerVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "11.2.0-MariaDB", v.Version)

	require.NoError(t, conn.Close())
	assert.Equal(t, float64(0), testutil.ToFloat64(m.DBOpenConnections))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DBConnectionsOpened))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServerVersion_QueryError(t *testing.T) {
	dsn, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(versionQuery)).
		WillReturnError(errors.New("Error 1146: Table 'mysql.nope' doesn't exist"))
	mock.ExpectClose()

	m := metrics.New()
	conn, err := NewConnectorWithDSN("sqlmock", dsn, m).Connect(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ServerVersion(context.Background())
	require.Error(t, err)

	var qerr *QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "Error 1146: Table 'mysql.nope' doesn't exist", err.Error())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DBQueryFailures))
}

func TestClose_Idempotent(t *testing.T) {
	dsn, mock := newMock(t)
	mock.ExpectClose()

	m := metrics.New()
	conn, err := NewConnectorWithDSN("sqlmock", dsn, m).Connect(context.Background())
	require.NoError(t, err)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())
	assert.Equal(t, float64(0), testutil.ToFloat64(m.DBOpenConnections))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnect_Unreachable(t *testing.T) {
	m := metrics.New()
	c := NewConnector(config.DB{
		Host:     "127.0.0.1",
		Port:     closedPort(t),
		User:     "root",
		Password: config.DefaultDBPassword,
		Name:     "mysql",
	}, m)

	conn, err := c.Connect(context.Background())
	assert.Nil(t, conn)
	require.Error(t, err)

	var cerr *ConnectionError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DBConnectionFailures))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.DBOpenConnections))
}

func TestConnect_UnknownDriver(t *testing.T) {
	conn, err := NewConnectorWithDSN("no-such-driver", "x", nil).Connect(context.Background())
	assert.Nil(t, conn)

	var cerr *ConnectionError
	assert.ErrorAs(t, err, &cerr)
}

func TestQueryError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(&QueryError{Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "boom", err.Error())

	err = &ConnectionError{Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}
