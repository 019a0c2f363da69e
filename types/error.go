package types

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPort is returned when injecting an event targeting a port
	// that does not exist on the component.
	ErrUnknownPort = errors.New("unknown port")

	// ErrValueParse is returned when an injected textual payload cannot be
	// parsed into the port's element type.
	ErrValueParse = errors.New("value parse error")

	// ErrJitterExceeded reports that the wall-clock drift exceeded the
	// configured maximum jitter of a real-time simulation.
	ErrJitterExceeded = errors.New("jitter exceeded")
)

// EngineError wraps a failure with the model and event context it occurred in.
type EngineError struct {
	model string
	event Event
	err   error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("EngineError: %s, model: %s, event: %s", e.err.Error(), e.model, e.event)
}

func (e *EngineError) Unwrap() error {
	return e.err
}

func NewEngineError(model string, event Event, err error) *EngineError {
	return &EngineError{
		model: model,
		event: event,
		err:   err,
	}
}
