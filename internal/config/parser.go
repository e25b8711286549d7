package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/alexisbeaulieu97/thermocard/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Override adjusts a decoded configuration before defaults and validation,
// typically from command-line flags.
type Override func(*Config)

// ParseConfig loads a configuration file from disk, applies overrides and
// defaults, validates it, and returns the resulting model.
func ParseConfig(path string, overrides ...Override) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewParseError(path, 0, err)
	}
	return Parse(path, data, overrides...)
}

// Parse decodes configuration bytes. path is only used for error reporting.
func Parse(path string, data []byte, overrides ...Override) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.NewParseError(path, extractLine(err), err)
	}

	for _, override := range overrides {
		if override != nil {
			override(&cfg)
		}
	}
	cfg.ApplyDefaults()

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ResolveToken returns the access token, preferring the environment variable
// named by TokenEnv over the inline token.
func (h HassConfig) ResolveToken() string {
	if h.TokenEnv != "" {
		if v := strings.TrimSpace(os.Getenv(h.TokenEnv)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(h.Token)
}

// MarshalCard renders a card configuration as YAML.
func MarshalCard(card CardConfig) ([]byte, error) {
	out, err := yaml.Marshal(card)
	if err != nil {
		return nil, fmt.Errorf("marshal card config: %w", err)
	}
	return out, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
