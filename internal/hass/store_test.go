package hass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/thermocard/internal/entity"
	"github.com/alexisbeaulieu97/thermocard/internal/theme"
)

func TestStoreReplaceAndApply(t *testing.T) {
	var updates []Update
	store := NewStore(StoreOptions{Notify: func(u Update) { updates = append(updates, u) }})

	store.ReplaceStates([]entity.Snapshot{
		{EntityID: "climate.living_room", State: "heat"},
		{EntityID: "water_heater.boiler", State: "eco"},
		{State: "ignored"},
	})
	require.Len(t, updates, 1)
	require.NotNil(t, updates[0].Host)
	assert.Len(t, updates[0].Host.States, 2)

	store.ApplyState("climate.living_room", &entity.Snapshot{EntityID: "climate.living_room", State: "off"})
	require.Len(t, updates, 2)
	snap, ok := updates[1].Host.States.Get("climate.living_room")
	require.True(t, ok)
	assert.Equal(t, "off", snap.State)

	store.ApplyState("water_heater.boiler", nil)
	require.Len(t, updates, 3)
	_, ok = updates[2].Host.States.Get("water_heater.boiler")
	assert.False(t, ok)

	assert.Equal(t, []string{"climate.living_room"}, store.EntityIDs())
}

func TestStoreSkipsUnchangedAndUnwatched(t *testing.T) {
	var updates []Update
	store := NewStore(StoreOptions{
		Watch:  []string{"climate.living_room"},
		Notify: func(u Update) { updates = append(updates, u) },
	})

	heat := entity.Snapshot{EntityID: "climate.living_room", State: "heat", Attributes: map[string]any{}}
	store.ApplyState(heat.EntityID, &heat)
	store.ApplyState(heat.EntityID, &heat)
	store.ApplyState("light.kitchen", &entity.Snapshot{State: "on"})
	store.ApplyState("sensor.unknown", nil)

	assert.Len(t, updates, 1)
	_, ok := store.Host().States.Get("light.kitchen")
	assert.True(t, ok, "unwatched entities are still stored")
}

func TestStoreHostIsACopy(t *testing.T) {
	store := NewStore(StoreOptions{})
	store.ReplaceStates([]entity.Snapshot{{EntityID: "climate.a", State: "heat"}})

	host := store.Host()
	host.States["climate.b"] = entity.Snapshot{EntityID: "climate.b"}

	_, ok := store.Host().States.Get("climate.b")
	assert.False(t, ok)
}

func TestStoreThemesAndStatus(t *testing.T) {
	var updates []Update
	localize := func(string) string { return "x" }
	store := NewStore(StoreOptions{Localize: localize, Notify: func(u Update) { updates = append(updates, u) }})

	assert.Equal(t, "#03a9f4", store.Host().Themes.Base.Lookup(theme.PrimaryColor))

	store.ReplaceThemes(theme.Registry{Base: theme.New("custom", map[string]string{"primary-color": "red"})})
	store.SetStatus(Status{Connected: true, Endpoint: "ws://ha"})

	require.Len(t, updates, 2)
	assert.Equal(t, "red", updates[0].Host.Themes.Base.Lookup(theme.PrimaryColor))
	assert.Equal(t, "x", updates[0].Host.Localize("any"))
	assert.Nil(t, updates[1].Host)
	require.NotNil(t, updates[1].Status)
	assert.True(t, updates[1].Status.Connected)
	assert.Equal(t, "ws://ha", store.Status().Endpoint)
}
