package config

import (
	"time"
)

// CardType is the identifier written by the card's stub configuration.
const CardType = "custom:thermowatt-thermostat-card"

// Config is the on-disk thermocard configuration.
type Config struct {
	Card      CardConfig      `yaml:"card"`
	Hass      HassConfig      `yaml:"hass"`
	Log       LogConfig       `yaml:"log"`
	Simulator SimulatorConfig `yaml:"simulator"`
}

// CardConfig is the card's configuration surface: the entity to display, an
// optional display name override and an optional named theme.
type CardConfig struct {
	Type   string `yaml:"type,omitempty"`
	Entity string `yaml:"entity" validate:"entity_id"`
	Name   string `yaml:"name,omitempty"`
	Theme  string `yaml:"theme,omitempty"`
}

// HassConfig describes how to reach Home Assistant.
type HassConfig struct {
	// URL is the websocket endpoint, e.g. ws://homeassistant.local:8123/api/websocket.
	URL string `yaml:"url" validate:"omitempty,ws_url"`
	// Token is a long-lived access token. Prefer TokenEnv.
	Token string `yaml:"token,omitempty"`
	// TokenEnv names an environment variable holding the access token.
	TokenEnv string `yaml:"token_env,omitempty"`
	// MinBackoff and MaxBackoff bound reconnection delays.
	MinBackoff time.Duration `yaml:"min_backoff,omitempty" validate:"omitempty,min=0"`
	MaxBackoff time.Duration `yaml:"max_backoff,omitempty" validate:"omitempty,gtefield=MinBackoff"`
	// MaxReconnects caps reconnection attempts; 0 retries forever.
	MaxReconnects int `yaml:"max_reconnects,omitempty" validate:"min=0"`
}

// LogConfig controls the structured loggers.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	File   string `yaml:"file,omitempty"`
	Format string `yaml:"format,omitempty" validate:"omitempty,oneof=text json logfmt"`
}

// SimulatorConfig enables the built-in simulated host.
type SimulatorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval,omitempty" validate:"omitempty,min=0"`
}

// Default values applied by ApplyDefaults.
const (
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultMinBackoff        = time.Second
	DefaultMaxBackoff        = 2 * time.Minute
	DefaultSimulatorInterval = 2 * time.Second
)

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Hass.MinBackoff == 0 {
		c.Hass.MinBackoff = DefaultMinBackoff
	}
	if c.Hass.MaxBackoff == 0 {
		c.Hass.MaxBackoff = DefaultMaxBackoff
	}
	if c.Simulator.Interval == 0 {
		c.Simulator.Interval = DefaultSimulatorInterval
	}
}
