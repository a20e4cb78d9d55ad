package internal

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/hackpulse/internal/models"
)

func TestConfigDefaults(t *testing.T) {
	ctx := testContext()
	cs := NewConfigService(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, cs.Load(ctx))
	conf := cs.GetConfig(ctx)
	assert.Equal(t, ":3000", conf.ListenAddress)
	assert.Equal(t, models.BackendSQLite, conf.Storage.Backend)
	assert.Equal(t, "hackpulse_data", conf.Storage.DataKey)
	assert.Equal(t, "hackpulse_auth_token", conf.Storage.AuthKey)
	assert.Equal(t, "admin", conf.DefaultUser.Name)
	assert.Equal(t, models.DefaultTags, cs.Tags(ctx))
	assert.True(t, cs.HasTag("AI"))
}

func TestConfigLoadAndTagCatalog(t *testing.T) {
	ctx := testContext()
	file := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, ioutil.WriteFile(file, []byte(`{
		"listenAddress": ":8080",
		"storage": {"backend": "bolt", "dataKey": "data", "authKey": "auth"},
		"simulatedLatencyMs": 25,
		"tags": ["Go", "Rust", "Go"]
	}`), 0644))

	cs := NewConfigService(file)
	require.NoError(t, cs.Load(ctx))
	conf := cs.GetConfig(ctx)
	assert.Equal(t, ":8080", conf.ListenAddress)
	assert.Equal(t, "hackpulse.bolt", conf.Storage.FileName())
	assert.Equal(t, uint(25), conf.SimulatedLatencyMs)
	assert.Equal(t, "info", conf.LogLevel, "unset values keep their defaults")
	assert.Equal(t, []string{"Go", "Rust"}, cs.Tags(ctx))

	require.NoError(t, cs.AddTag(ctx, " Zig "))
	require.NoError(t, cs.AddTag(ctx, "Go"), "adding a known tag is ignored")
	assert.Equal(t, ErrIllegalTag, cs.AddTag(ctx, "   "))
	assert.Equal(t, []string{"Go", "Rust", "Zig"}, cs.Tags(ctx))

	require.NoError(t, cs.RemoveTag(ctx, "Rust"))
	assert.Equal(t, ErrTagNotFound, cs.RemoveTag(ctx, "Rust"))
	assert.Equal(t, []string{"Go", "Zig"}, cs.Tags(ctx))

	// The catalog has been written back to the file
	data, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	var written models.AppConfig
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, []string{"Go", "Zig"}, written.Tags)
	assert.Equal(t, ":8080", written.ListenAddress)
}

func TestTagCatalogWithoutLoadedConfig(t *testing.T) {
	ctx := testContext()
	file := filepath.Join(t.TempDir(), "config.json")
	cs := NewConfigService(file)
	require.NoError(t, cs.RemoveTag(ctx, "AI"))
	assert.False(t, cs.HasTag("AI"))
	assert.Len(t, cs.Tags(ctx), len(models.DefaultTags)-1)
	assert.FileExists(t, file)
}

func TestConcurrentTagChanges(t *testing.T) {
	ctx := testContext()
	file := filepath.Join(t.TempDir(), "config.json")
	cs := NewConfigService(file)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, cs.AddTag(ctx, fmt.Sprintf("Tag%d", i)))
			cs.GetConfig(ctx)
		}(i)
	}
	wg.Wait()

	assert.Len(t, cs.Tags(ctx), len(models.DefaultTags)+10)
	for i := 0; i < 10; i++ {
		assert.True(t, cs.HasTag(fmt.Sprintf("Tag%d", i)))
	}
	assert.Len(t, cs.GetConfig(ctx).Tags, len(models.DefaultTags)+10)

	data, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	var written models.AppConfig
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Len(t, written.Tags, len(models.DefaultTags)+10)
}
