// Package store is the SQLite persistence layer for the monthly
// brand-API usage counter. The database file may be shared by several
// independent processes; all mutations are single-statement upserts so
// concurrent increments never lose updates.
package store

import (
	"database/sql"

	"github.com/djmoore711/brandfetch-mcp/dbopen"
)

// Store is the usage database handle.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the usage SQLite database at path and applies
// the schema.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	allOpts := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)

	db, err := dbopen.Open(path, allOpts...)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
