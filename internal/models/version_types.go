package models

// DBVersion is the single row returned by the version query.
type DBVersion struct {
	Version string `json:"version" db:"version"`
}
