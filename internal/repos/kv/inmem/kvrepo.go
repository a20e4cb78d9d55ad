// Package inmem provides a key-value store that works from memory.
package inmem

import (
	"sync"

	"github.com/derWhity/hackpulse/internal/repos"
)

// KVRepo provides a simple in-memory key-value storage
type KVRepo struct {
	mtx    sync.RWMutex
	values map[string][]byte
}

// New creates a new, empty key-value repository instance
func New() *KVRepo {
	return &KVRepo{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under the given key
func (r *KVRepo) Get(key string) ([]byte, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	if v, ok := r.values[key]; ok {
		return append([]byte{}, v...), nil
	}
	return nil, repos.ErrEntityNotExisting
}

// Put stores a copy of the value under the given key
func (r *KVRepo) Put(key string, value []byte) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.values[key] = append([]byte{}, value...)
	return nil
}

// Delete removes the key
func (r *KVRepo) Delete(key string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	delete(r.values, key)
	return nil
}

// Close does nothing
func (r *KVRepo) Close() error {
	return nil
}
