// Package kv provides the hackathon repository that stores the whole collection as one JSON blob inside a key-value
// store
package kv

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/derWhity/hackpulse/internal/log"
	"github.com/derWhity/hackpulse/internal/models"
	"github.com/derWhity/hackpulse/internal/repos"
)

// HackathonRepo stores the hackathon collection under a single key
type HackathonRepo struct {
	store  repos.KVStore
	key    string
	now    func() time.Time
	logger *logrus.Entry
}

// New creates a new hackathon repository storing its collection under the given key. The clock is used for dating
// the seed collection.
func New(store repos.KVStore, key string, now func() time.Time, logger *logrus.Entry) *HackathonRepo {
	if now == nil {
		now = time.Now
	}
	return &HackathonRepo{
		store:  store,
		key:    key,
		now:    now,
		logger: logger.WithField(log.FldKey, key),
	}
}

// Load returns the full collection, initializing the storage with the seed collection on first access
func (r *HackathonRepo) Load() ([]models.Hackathon, error) {
	data, err := r.store.Get(r.key)
	if err == repos.ErrEntityNotExisting {
		seed := models.SeedHackathons(r.now())
		r.logger.WithField(log.FldCount, len(seed)).Info("No stored hackathons found - storing seed collection")
		if err := r.Save(seed); err != nil {
			return nil, err
		}
		return seed, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "Load: Failed to read collection")
	}
	var ret []models.Hackathon
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, errors.Wrap(err, "Load: Failed to decode collection")
	}
	if ret == nil {
		ret = []models.Hackathon{}
	}
	return ret, nil
}

// Save replaces the stored collection
func (r *HackathonRepo) Save(collection []models.Hackathon) error {
	if collection == nil {
		collection = []models.Hackathon{}
	}
	data, err := json.Marshal(collection)
	if err != nil {
		return errors.Wrap(err, "Save: Failed to encode collection")
	}
	r.logger.WithField(log.FldCount, len(collection)).Debug("Saving hackathon collection")
	return errors.Wrap(r.store.Put(r.key, data), "Save: Failed to write collection")
}
