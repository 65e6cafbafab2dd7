package pipeline

import (
	"fmt"
)

// ParameterResolutionError is returned when the step whose parameters should
// be read or updated cannot be determined. Err is the resolver failure,
// usually an *identity.StepIdentityError.
type ParameterResolutionError struct {
	Op  string
	Err error
}

func (e *ParameterResolutionError) Error() string {
	return fmt.Sprintf("unable to %s parameters: could not determine which step to act on: %v", e.Op, e.Err)
}

func (e *ParameterResolutionError) Unwrap() error {
	return e.Err
}
