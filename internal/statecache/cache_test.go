package statecache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/thermocard/internal/entity"
)

func boiler(state string) entity.Snapshot {
	return entity.Snapshot{
		EntityID:    "water_heater.boiler",
		State:       state,
		Attributes:  map[string]any{"friendly_name": "Boiler", "heating": true},
		LastChanged: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "states.json")

	cache, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
	assert.True(t, cache.SavedAt().IsZero())

	_, ok := cache.Get("water_heater.boiler")
	assert.False(t, ok)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.json")

	cache, err := Open(path)
	require.NoError(t, err)
	cache.Put(boiler("eco"), entity.Snapshot{State: "ignored"})
	require.NoError(t, cache.Save())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file is renamed away")

	reloaded, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.Len())
	assert.False(t, reloaded.SavedAt().IsZero())

	snap, ok := reloaded.Get("water_heater.boiler")
	require.True(t, ok)
	assert.Equal(t, "eco", snap.State)
	assert.Equal(t, "Boiler", snap.StringAttr(entity.AttrFriendlyName))
	assert.True(t, snap.LastChanged.Equal(boiler("eco").LastChanged))
}

func TestPutReplaces(t *testing.T) {
	cache, err := Open(filepath.Join(t.TempDir(), "states.json"))
	require.NoError(t, err)

	cache.Put(boiler("eco"))
	cache.Put(boiler("off"), entity.Snapshot{EntityID: "climate.den", State: "heat"})

	snaps := cache.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, "climate.den", snaps[0].EntityID)
	assert.Equal(t, "off", snaps[1].State)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse state cache")
}

func TestLoadDropsOtherVersions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.json")
	data := `{"version":"0","states":{"climate.den":{"entity_id":"climate.den","state":"heat"}}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cache, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
}
