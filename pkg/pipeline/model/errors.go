package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidDocument   = errors.New("pipeline document must be a JSON object")
	ErrMissingSteps      = errors.New("pipeline document has no steps collection")
	ErrInvalidStep       = errors.New("step entry must be a JSON object")
	ErrUUIDMismatch      = errors.New("step uuid does not match its key")
	ErrInvalidParameters = errors.New("step parameters must be a JSON object")
)

// StepNotFoundError is returned when a UUID does not name a step of the pipeline.
type StepNotFoundError struct {
	UUID string
}

func (e *StepNotFoundError) Error() string {
	return fmt.Sprintf("step %q not found in pipeline", e.UUID)
}
