// Package bolt provides a key-value store that keeps its data inside a BoltDB file
package bolt

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"

	"github.com/derWhity/hackpulse/internal/log"
	"github.com/derWhity/hackpulse/internal/repos"
)

// bucket is the BoltDB bucket all values are stored in
var bucket = []byte("hackpulse")

// KVRepo is a key-value store backed by BoltDB
type KVRepo struct {
	db     *bbolt.DB
	logger *logrus.Entry
}

// New opens (or creates) the BoltDB file at the given path
func New(dbPath string, logger *logrus.Entry) (*KVRepo, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.Wrapf(err, "New: Failed to create directory for %s", dbPath)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "New: Failed to open BoltDB at %s", dbPath)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "New: Failed to create bucket")
	}
	logger.WithField(log.FldFile, dbPath).Info("BoltDB store initialized")
	return &KVRepo{db: db, logger: logger}, nil
}

// Get returns the value stored under the given key
func (r *KVRepo) Get(key string) ([]byte, error) {
	r.logger.WithField(log.FldKey, key).Debug("Loading value")
	var value []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(key))
		if data == nil {
			return repos.ErrEntityNotExisting
		}
		// The slice is only valid during the transaction
		value = append([]byte{}, data...)
		return nil
	})
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, err
		}
		return nil, errors.Wrapf(err, "Get: Failed to read key '%s'", key)
	}
	return value, nil
}

// Put stores the value under the given key, replacing the old value
func (r *KVRepo) Put(key string, value []byte) error {
	r.logger.WithFields(logrus.Fields{
		log.FldKey:   key,
		log.FldCount: len(value),
	}).Debug("Storing value")
	err := r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), value)
	})
	return errors.Wrapf(err, "Put: Failed to store key '%s'", key)
}

// Delete removes the key from the bucket
func (r *KVRepo) Delete(key string) error {
	r.logger.WithField(log.FldKey, key).Debug("Deleting value")
	err := r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
	return errors.Wrapf(err, "Delete: Failed to delete key '%s'", key)
}

// Close closes the BoltDB file
func (r *KVRepo) Close() error {
	return r.db.Close()
}
