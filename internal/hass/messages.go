package hass

import (
	"encoding/json"

	"github.com/alexisbeaulieu97/thermocard/internal/entity"
)

// Message types of the Home Assistant websocket API.
const (
	typeAuthRequired = "auth_required"
	typeAuth         = "auth"
	typeAuthOK       = "auth_ok"
	typeAuthInvalid  = "auth_invalid"
	typeResult       = "result"
	typeEvent        = "event"
	typePing         = "ping"
	typePong         = "pong"

	commandGetStates       = "get_states"
	commandSubscribeEvents = "subscribe_events"
	commandGetThemes       = "frontend/get_themes"

	eventStateChanged  = "state_changed"
	eventThemesUpdated = "themes_updated"
)

// inbound is any message the server sends.
type inbound struct {
	ID        int64           `json:"id,omitempty"`
	Type      string          `json:"type"`
	Success   bool            `json:"success,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Event     *eventEnvelope  `json:"event,omitempty"`
	Error     *resultError    `json:"error,omitempty"`
	Message   string          `json:"message,omitempty"`
	HAVersion string          `json:"ha_version,omitempty"`
}

type resultError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type eventEnvelope struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
	TimeFired string          `json:"time_fired,omitempty"`
}

type stateChangedData struct {
	EntityID string           `json:"entity_id"`
	NewState *entity.Snapshot `json:"new_state"`
	OldState *entity.Snapshot `json:"old_state"`
}

type authMessage struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token"`
}

type command struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	EventType string `json:"event_type,omitempty"`
}

// themesResult is the payload of frontend/get_themes.
type themesResult struct {
	Themes       map[string]map[string]any `json:"themes"`
	DefaultTheme string                    `json:"default_theme"`
}
