// Package repos contains the repository interfaces needed in HackPulse
// It exists to prevent circular dependencies between the services and the repo implementations
package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/derWhity/hackpulse/internal/models"
)

var (
	// ErrEntityNotExisting is fired by a repository when an entity that is read or deleted does not exist
	ErrEntityNotExisting = fmt.Errorf("entity does not exist")
)

// KVStore is a durable key-addressed storage of opaque values
type KVStore interface {
	// Get returns the value stored under the given key or ErrEntityNotExisting
	Get(key string) ([]byte, error)
	// Put stores the value under the given key, replacing anything stored there before
	Put(key string, value []byte) error
	// Delete removes the key - deleting a non-existing key is no error
	Delete(key string) error
	// Close releases the underlying resources
	Close() error
}

// HackathonRepo stores the full hackathon collection as a whole
type HackathonRepo interface {
	// Load returns the full collection. If nothing has been stored yet, the seed collection is stored and returned.
	Load() ([]models.Hackathon, error)
	// Save replaces the stored collection with the given one
	Save(collection []models.Hackathon) error
}

// SessionRepo stores the marker of the single admin session
type SessionRepo interface {
	// Create creates a new session for the given user, replacing any existing one
	Create(userName string) (*models.Session, error)
	// Get returns the current session or ErrEntityNotExisting if nobody is logged in
	Get() (*models.Session, error)
	// Delete removes the session marker
	Delete() error
}

// -- Helpers for SQLX repos -------------------------------------------------------------------------------------------

// DoRollback rolls back a transaction and catches any error resulting from it while appending the original error
func DoRollback(tx *sqlx.Tx, originalError error) error {
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("doRollback: Transaction rollback failed: %v; Recent error: %v", err, originalError)
	}
	return originalError
}
