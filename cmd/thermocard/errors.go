package main

import (
	"errors"
	"fmt"

	apperrors "github.com/alexisbeaulieu97/thermocard/pkg/errors"
)

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}

// suggestionFor picks a hint for the typed errors the card can fail with.
func suggestionFor(err error) string {
	var (
		parseErr      *apperrors.ParseError
		validationErr *apperrors.ValidationError
		authErr       *apperrors.AuthError
		connErr       *apperrors.ConnectionError
	)
	switch {
	case errors.As(err, &parseErr):
		return "Check the YAML syntax near the reported line."
	case errors.As(err, &validationErr):
		return "Run 'thermocard validate <config>' and fix the reported field."
	case errors.As(err, &authErr):
		return "Create a new long-lived access token in your Home Assistant profile."
	case errors.As(err, &connErr):
		return "Check that Home Assistant is reachable at hass.url."
	default:
		return "Re-run with --verbose and --log-file to capture details."
	}
}
