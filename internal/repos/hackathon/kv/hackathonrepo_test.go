package kv

import (
	"io/ioutil"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/hackpulse/internal/models"
	"github.com/derWhity/hackpulse/internal/repos/kv/inmem"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.Out = ioutil.Discard
	return logrus.NewEntry(l)
}

func TestLoadSeedsEmptyStore(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := inmem.New()
	r := New(store, "data", func() time.Time { return now }, testLogger())

	col, err := r.Load()
	require.NoError(t, err)
	assert.Equal(t, models.SeedHackathons(now), col)

	// The seed has been stored and is not regenerated with a later clock
	_, err = store.Get("data")
	require.NoError(t, err)
	later := New(store, "data", func() time.Time { return now.Add(time.Hour) }, testLogger())
	again, err := later.Load()
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.True(t, again[0].CreatedAt.Equal(now))
}

func TestSaveReplacesCollection(t *testing.T) {
	store := inmem.New()
	r := New(store, "data", nil, testLogger())
	h := models.Hackathon{ID: "only", Slug: "only-one"}
	h.Title = "Only One"
	h.Mode = models.ModeOnline
	require.NoError(t, r.Save([]models.Hackathon{h}))

	col, err := r.Load()
	require.NoError(t, err)
	require.Len(t, col, 1)
	assert.Equal(t, "only", col[0].ID)

	require.NoError(t, r.Save(nil))
	col, err = r.Load()
	require.NoError(t, err)
	assert.NotNil(t, col)
	assert.Empty(t, col, "an empty collection is not re-seeded")
}

func TestLoadCorruptData(t *testing.T) {
	store := inmem.New()
	require.NoError(t, store.Put("data", []byte("{not json")))
	_, err := New(store, "data", nil, testLogger()).Load()
	assert.Error(t, err)
}
