package database

import "fmt"

// ConnectionError means no session could be established: the host was
// unreachable, the credentials were rejected or the database is missing.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError means a session was open but the query itself failed. Its
// message is the driver's own text.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	if e.Err == nil {
		return "query failed"
	}
	return e.Err.Error()
}

func (e *QueryError) Unwrap() error { return e.Err }
