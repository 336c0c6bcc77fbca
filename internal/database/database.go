package database

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens the PostgreSQL pool backing the sessions and pocket_events
// tables. sqlx.Connect pings before returning, so a non-nil pool is live.
func Connect(databaseURL string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	log.Printf("[DB] Connected to PostgreSQL (pool %d open / %d idle)", maxOpen, maxIdle)
	return db, nil
}
