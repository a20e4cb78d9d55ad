package inmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/hackpulse/internal/repos"
)

func TestKVRepo(t *testing.T) {
	r := New()
	_, err := r.Get("missing")
	assert.Equal(t, repos.ErrEntityNotExisting, err)

	value := []byte(`{"a":1}`)
	require.NoError(t, r.Put("k", value))
	value[0] = 'x'
	got, err := r.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got, "stored value is a copy")

	got[0] = 'y'
	again, _ := r.Get("k")
	assert.Equal(t, []byte(`{"a":1}`), again, "returned value is a copy")

	require.NoError(t, r.Put("k", []byte("2")))
	got, _ = r.Get("k")
	assert.Equal(t, []byte("2"), got)

	require.NoError(t, r.Delete("k"))
	require.NoError(t, r.Delete("k"))
	_, err = r.Get("k")
	assert.Equal(t, repos.ErrEntityNotExisting, err)
	assert.NoError(t, r.Close())
}
