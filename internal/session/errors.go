package session

import (
	"errors"
	"fmt"
)

var (
	ErrNoTopics         = errors.New("select at least one topic")
	ErrNoCredential     = errors.New("no API key configured, scoring is disabled")
	ErrInvalidTimer     = errors.New("timer is not one of the available options")
	ErrUnknownTopic     = errors.New("unknown topic")
	ErrEmptyName        = errors.New("name must not be empty")
	ErrBlankExplanation = errors.New("explanation is blank")
	ErrInputLocked      = errors.New("time is up, the explanation can no longer be edited")
	ErrScoringInFlight  = errors.New("a scoring request is already in progress")
)

// ConfigurationError reports a setting that prevents an operation.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// TransitionError is returned when an operation is not valid in the
// current phase. The machine state is left unchanged.
type TransitionError struct {
	From Phase
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Op, e.From)
}
