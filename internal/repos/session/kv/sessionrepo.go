// Package kv provides a session repository that keeps the single session marker inside a key-value store
package kv

import (
	"crypto/rand"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/derWhity/hackpulse/internal/models"
	"github.com/derWhity/hackpulse/internal/repos"
)

// SessionRepo stores the session marker under a single key
type SessionRepo struct {
	store repos.KVStore
	key   string
	now   func() time.Time
}

// New creates a new session repository instance using the given key
func New(store repos.KVStore, key string, now func() time.Time) *SessionRepo {
	if now == nil {
		now = time.Now
	}
	return &SessionRepo{
		store: store,
		key:   key,
		now:   now,
	}
}

// -- Random string generator ----------------------------------------------------------------------------------------

const (
	letterBytes   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	letterIdxMask = 1<<6 - 1 // 6 bits are enough to index all letters
)

// RandomString creates a random string with the given length using the system's secure random source
func RandomString(n int) (string, error) {
	b := make([]byte, n)
	buf := make([]byte, n)
	for i := 0; i < n; {
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Wrap(err, "RandomString: Failed to read random bytes")
		}
		// Skip indices outside the alphabet
		for _, v := range buf {
			if idx := int(v & letterIdxMask); idx < len(letterBytes) {
				b[i] = letterBytes[idx]
				i++
				if i == n {
					break
				}
			}
		}
	}
	return string(b), nil
}

// ---------------------------------------------------------------------------------------------------------------------

// Create creates a new session for the given user, replacing the current one
func (r *SessionRepo) Create(userName string) (*models.Session, error) {
	token, err := RandomString(64)
	if err != nil {
		return nil, errors.Wrap(err, "Create: Failed to generate session token")
	}
	sess := models.Session{
		ID:        token,
		UserName:  userName,
		CreatedAt: r.now(),
	}
	data, err := json.Marshal(&sess)
	if err != nil {
		return nil, errors.Wrap(err, "Create: Failed to encode session")
	}
	if err := r.store.Put(r.key, data); err != nil {
		return nil, errors.Wrap(err, "Create: Failed to store session")
	}
	return &sess, nil
}

// Get returns the current session
func (r *SessionRepo) Get() (*models.Session, error) {
	data, err := r.store.Get(r.key)
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, err
		}
		return nil, errors.Wrap(err, "Get: Failed to read session")
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(err, "Get: Failed to decode session")
	}
	return &sess, nil
}

// Delete removes the session marker
func (r *SessionRepo) Delete() error {
	return errors.Wrap(r.store.Delete(r.key), "Delete: Failed to remove session")
}
