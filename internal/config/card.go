package config

import (
	"strings"

	"github.com/alexisbeaulieu97/thermocard/internal/entity"
	apperrors "github.com/alexisbeaulieu97/thermocard/pkg/errors"
)

const (
	msgEntityRequired = "You need to define an entity"
	msgEntityDomain   = "Specify an entity from within the climate or water_heater domain"
)

// Validate checks the card configuration the way the card does when it is
// configured: the entity must be present and belong to an accepted domain.
func (c CardConfig) Validate() error {
	return checkEntity("entity", c.Entity)
}

// checkEntity is the entity rule shared by Validate and the entity_id
// validator tag. field names the offending field in the returned error.
func checkEntity(field, raw string) error {
	id := strings.TrimSpace(raw)
	if id == "" {
		return apperrors.NewValidationError(field, msgEntityRequired, nil)
	}
	if !entity.DomainOf(id).IsAccepted() {
		return apperrors.NewValidationError(field, msgEntityDomain, nil)
	}
	if _, _, err := entity.ParseID(id); err != nil {
		return apperrors.NewValidationError(field, err.Error(), err)
	}
	return nil
}

// Domain returns the domain of the configured entity.
func (c CardConfig) Domain() entity.Domain {
	return entity.DomainOf(strings.TrimSpace(c.Entity))
}

// StubConfig returns the configuration a freshly added card starts with: the
// first entity from an accepted domain, or an empty entity when none exists.
func StubConfig(entityIDs []string) CardConfig {
	stub := CardConfig{Type: CardType}
	for _, id := range entityIDs {
		if entity.DomainOf(id).IsAccepted() {
			stub.Entity = id
			break
		}
	}
	return stub
}
