package entity

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Domain identifies the Home Assistant integration an entity belongs to.
type Domain string

const (
	DomainClimate     Domain = "climate"
	DomainWaterHeater Domain = "water_heater"
)

// Accepted lists the domains a thermostat card can display, in display order.
var Accepted = []Domain{DomainClimate, DomainWaterHeater}

// Well-known state values shared by every domain.
const (
	StateUnavailable = "unavailable"
	StateUnknown     = "unknown"
	StateOff         = "off"
)

// Attribute keys read by the card.
const (
	AttrFriendlyName       = "friendly_name"
	AttrOperation          = "operation"
	AttrHVACAction         = "hvac_action"
	AttrHeating            = "heating"
	AttrCurrentTemperature = "current_temperature"
	AttrTemperature        = "temperature"
	AttrMinTemp            = "min_temp"
	AttrMaxTemp            = "max_temp"
)

// IsAccepted reports whether d is one of the card's supported domains.
func (d Domain) IsAccepted() bool {
	for _, candidate := range Accepted {
		if d == candidate {
			return true
		}
	}
	return false
}

// String returns the raw domain name.
func (d Domain) String() string {
	return string(d)
}

// DomainOf extracts the domain part of an entity id ("climate.kitchen" → climate).
// Ids without a dot yield the whole string as domain.
func DomainOf(entityID string) Domain {
	domain, _, _ := strings.Cut(entityID, ".")
	return Domain(domain)
}

// ParseID splits an entity id into domain and object id and checks both parts
// are present.
func ParseID(entityID string) (Domain, string, error) {
	domain, objectID, ok := strings.Cut(strings.TrimSpace(entityID), ".")
	if !ok || domain == "" || objectID == "" {
		return "", "", fmt.Errorf("entity id %q must have the form domain.object_id", entityID)
	}
	return Domain(domain), objectID, nil
}

// Snapshot is the latest known state of one entity as pushed by the host.
// Snapshots are values: the card never mutates one it has received.
type Snapshot struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged time.Time      `json:"last_changed"`
	LastUpdated time.Time      `json:"last_updated"`
}

// Domain derives the snapshot's domain from its entity id.
func (s Snapshot) Domain() Domain {
	return DomainOf(s.EntityID)
}

// Attr returns the raw attribute value and whether the key is present.
func (s Snapshot) Attr(key string) (any, bool) {
	if s.Attributes == nil {
		return nil, false
	}
	v, ok := s.Attributes[key]
	return v, ok
}

// StringAttr returns the attribute as a string. Non-string values and missing
// keys yield "".
func (s Snapshot) StringAttr(key string) string {
	v, ok := s.Attr(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// FloatAttr returns a numeric attribute. JSON numbers decode as float64; ints
// and numeric strings are accepted as well.
func (s Snapshot) FloatAttr(key string) (float64, bool) {
	v, ok := s.Attr(key)
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

// IsUnavailable reports whether the entity is in one of the states for which
// no presentation should be forced.
func (s Snapshot) IsUnavailable() bool {
	return s.State == StateUnavailable || s.State == StateUnknown
}

// Equal compares two snapshots by value.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.EntityID != other.EntityID || s.State != other.State {
		return false
	}
	if !s.LastUpdated.Equal(other.LastUpdated) || !s.LastChanged.Equal(other.LastChanged) {
		return false
	}
	if len(s.Attributes) != len(other.Attributes) {
		return false
	}
	if len(s.Attributes) == 0 {
		return true
	}
	return reflect.DeepEqual(s.Attributes, other.Attributes)
}

// States is the host's current entity registry keyed by entity id.
type States map[string]Snapshot

// Get looks up an entity by id.
func (st States) Get(entityID string) (Snapshot, bool) {
	if st == nil {
		return Snapshot{}, false
	}
	snap, ok := st[entityID]
	return snap, ok
}

// IDs returns every entity id in the registry. Order is unspecified.
func (st States) IDs() []string {
	ids := make([]string, 0, len(st))
	for id := range st {
		ids = append(ids, id)
	}
	return ids
}
