// Package sqlite provides a key-value store that keeps its data inside a SQLite database
package sqlite

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/derWhity/hackpulse/internal/log"
	"github.com/derWhity/hackpulse/internal/repos"
)

// KVRepo is a key-value store that keeps its data inside the KeyValues table of a SQLite database
type KVRepo struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

// New creates a new key-value repository instance with the given database and logger. The database needs to be
// migrated already.
func New(db *sqlx.DB, logger *logrus.Entry) *KVRepo {
	return &KVRepo{
		db:     db,
		logger: logger,
	}
}

// Get returns the value stored under the given key
func (r *KVRepo) Get(key string) ([]byte, error) {
	r.logger.WithField(log.FldKey, key).Debug("Loading value")
	var value []byte
	err := r.db.Get(&value, `SELECT value FROM KeyValues WHERE name = ?`, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repos.ErrEntityNotExisting
		}
		return nil, errors.Wrapf(err, "Get: Failed to query key '%s'", key)
	}
	return value, nil
}

// Put stores the value under the given key, replacing the old value
func (r *KVRepo) Put(key string, value []byte) error {
	r.logger.WithFields(logrus.Fields{
		log.FldKey:   key,
		log.FldCount: len(value),
	}).Debug("Storing value")
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "Put: Failed to start transaction")
	}
	query := `REPLACE INTO KeyValues(name, value, updatedAt) VALUES(?, ?, datetime('now'))`
	if _, err = tx.Exec(query, key, value); err != nil {
		return repos.DoRollback(tx, errors.Wrapf(err, "Put: Failed to store key '%s'", key))
	}
	return errors.Wrap(tx.Commit(), "Put: Failed to commit")
}

// Delete removes the key from the table
func (r *KVRepo) Delete(key string) error {
	r.logger.WithField(log.FldKey, key).Debug("Deleting value")
	if _, err := r.db.Exec(`DELETE FROM KeyValues WHERE name = ?`, key); err != nil {
		return errors.Wrapf(err, "Delete: Failed to delete key '%s'", key)
	}
	return nil
}

// Close closes the database connection
func (r *KVRepo) Close() error {
	return r.db.Close()
}
