package engine

import (
	"errors"
	"fmt"
)

// ConfigError reports malformed or inconsistent form configuration.
// It is raised eagerly when a catalog is loaded so a broken config never
// reaches a live wizard session.
type ConfigError struct {
	FieldID string
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.FieldID != "" {
		return fmt.Sprintf("form config error (field %q): %s", e.FieldID, e.Reason)
	}
	return "form config error: " + e.Reason
}

func configErr(fieldID, format string, args ...interface{}) *ConfigError {
	return &ConfigError{FieldID: fieldID, Reason: fmt.Sprintf(format, args...)}
}

// ErrFieldNotFound is returned by Catalog.Get for an undeclared field id.
var ErrFieldNotFound = errors.New("field not found in catalog")

// ValidationBlockedError is the recoverable failure returned when a
// transition is gated by invalid visible fields. Errors is keyed by
// field id.
type ValidationBlockedError struct {
	Step   int
	Errors map[string][]FailureReason
}

func (e *ValidationBlockedError) Error() string {
	return fmt.Sprintf("step %d blocked by %d invalid field(s)", e.Step, len(e.Errors))
}

// TransformError reports an internal consistency failure while building
// the final submission record. It is fatal for that submit attempt.
type TransformError struct {
	FieldID string
	Reason  string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform failed (field %q): %s", e.FieldID, e.Reason)
}

// Wizard transition errors. All are recoverable; the state machine stays
// where it was.
var (
	ErrWizardClosed   = errors.New("wizard already submitting or completed")
	ErrNoNextStep     = errors.New("already on the last step")
	ErrNoPreviousStep = errors.New("already on the first step")
	ErrJumpNotAllowed = errors.New("cannot jump ahead of the last validated step")
	ErrNotOnLastStep  = errors.New("submit is only allowed from the last step")
)
