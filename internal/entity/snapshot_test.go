package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		id       string
		domain   Domain
		objectID string
		wantErr  bool
	}{
		{name: "climate", id: "climate.living_room", domain: DomainClimate, objectID: "living_room"},
		{name: "water heater", id: "water_heater.boiler", domain: DomainWaterHeater, objectID: "boiler"},
		{name: "surrounding spaces", id: "  climate.attic ", domain: DomainClimate, objectID: "attic"},
		{name: "missing dot", id: "climate", wantErr: true},
		{name: "missing object id", id: "climate.", wantErr: true},
		{name: "missing domain", id: ".kitchen", wantErr: true},
		{name: "empty", id: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			domain, objectID, err := ParseID(tc.id)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.domain, domain)
			assert.Equal(t, tc.objectID, objectID)
		})
	}
}

func TestDomainIsAccepted(t *testing.T) {
	t.Parallel()

	assert.True(t, DomainClimate.IsAccepted())
	assert.True(t, DomainWaterHeater.IsAccepted())
	assert.False(t, Domain("light").IsAccepted())
	assert.False(t, Domain("").IsAccepted())
}

func TestSnapshotAttributes(t *testing.T) {
	t.Parallel()

	snap := Snapshot{
		EntityID: "water_heater.boiler",
		State:    "eco",
		Attributes: map[string]any{
			AttrFriendlyName:       "Boiler",
			AttrCurrentTemperature: 48.5,
			AttrTemperature:        "55",
			AttrMinTemp:            20,
			AttrHeating:            nil,
		},
	}

	assert.Equal(t, DomainWaterHeater, snap.Domain())
	assert.Equal(t, "Boiler", snap.StringAttr(AttrFriendlyName))
	assert.Equal(t, "", snap.StringAttr(AttrCurrentTemperature))
	assert.Equal(t, "", snap.StringAttr("missing"))

	cur, ok := snap.FloatAttr(AttrCurrentTemperature)
	require.True(t, ok)
	assert.InDelta(t, 48.5, cur, 0.001)

	target, ok := snap.FloatAttr(AttrTemperature)
	require.True(t, ok)
	assert.InDelta(t, 55.0, target, 0.001)

	low, ok := snap.FloatAttr(AttrMinTemp)
	require.True(t, ok)
	assert.InDelta(t, 20.0, low, 0.001)

	_, ok = snap.FloatAttr(AttrHeating)
	assert.False(t, ok)

	v, present := snap.Attr(AttrHeating)
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestSnapshotIsUnavailable(t *testing.T) {
	t.Parallel()

	assert.True(t, Snapshot{State: StateUnavailable}.IsUnavailable())
	assert.True(t, Snapshot{State: StateUnknown}.IsUnavailable())
	assert.False(t, Snapshot{State: "heat"}.IsUnavailable())
	assert.False(t, Snapshot{State: StateOff}.IsUnavailable())
}

func TestSnapshotEqual(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := Snapshot{EntityID: "climate.x", State: "heat", LastUpdated: now, Attributes: map[string]any{"heating": true}}
	b := Snapshot{EntityID: "climate.x", State: "heat", LastUpdated: now, Attributes: map[string]any{"heating": true}}
	assert.True(t, a.Equal(b))

	b.Attributes = map[string]any{"heating": false}
	assert.False(t, a.Equal(b))

	c := Snapshot{EntityID: "climate.x", State: "heat", LastUpdated: now.Add(time.Second), Attributes: map[string]any{"heating": true}}
	assert.False(t, a.Equal(c))

	empty := Snapshot{EntityID: "climate.x"}
	assert.True(t, empty.Equal(Snapshot{EntityID: "climate.x", Attributes: map[string]any{}}))
}

func TestStatesGet(t *testing.T) {
	t.Parallel()

	var nilStates States
	_, ok := nilStates.Get("climate.x")
	assert.False(t, ok)

	st := States{"climate.x": {EntityID: "climate.x", State: "off"}}
	snap, ok := st.Get("climate.x")
	require.True(t, ok)
	assert.Equal(t, "off", snap.State)
	assert.ElementsMatch(t, []string{"climate.x"}, st.IDs())
}
