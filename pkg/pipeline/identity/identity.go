// Package identity determines which step of a pipeline is currently executing.
//
// The execution context is an explicit value: callers build an ExecContext
// (typically from configuration or the environment) and hand it to a Resolver
// together with the pipeline. Resolvers hold no hidden state.
package identity

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/go-stepparams/pkg/pipeline/model"
)

var (
	ErrContextMissing = errors.New("execution context names no step")
	ErrUnknownStep    = errors.New("step is not part of the pipeline")
	ErrNoStepForFile  = errors.New("no step executes the file")
	ErrAmbiguousFile  = errors.New("several steps execute the file")
)

// ExecContext describes where the caller is running.
type ExecContext struct {
	// StepUUID is the UUID of the running step, when the runtime provides it.
	StepUUID string
	// FilePath is the file being executed, relative to the project directory.
	// It is only used when StepUUID is empty.
	FilePath string
}

// StepIdentityError is returned when an execution context cannot be mapped to
// exactly one step of a pipeline.
type StepIdentityError struct {
	Reason string
	Err    error
}

func (e *StepIdentityError) Error() string {
	return fmt.Sprintf("unable to resolve current step: %s: %v", e.Reason, e.Err)
}

func (e *StepIdentityError) Unwrap() error {
	return e.Err
}

// Resolver maps an execution context to the UUID of a step of p.
type Resolver interface {
	Resolve(ec ExecContext, p *model.Pipeline) (string, error)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(ec ExecContext, p *model.Pipeline) (string, error)

func (f ResolverFunc) Resolve(ec ExecContext, p *model.Pipeline) (string, error) {
	return f(ec, p)
}

// Default resolves by step UUID first and falls back to the executed file.
var Default Resolver = ResolverFunc(Resolve)

// Resolve returns the UUID of the step ec refers to.
func Resolve(ec ExecContext, p *model.Pipeline) (string, error) {
	if p == nil {
		return "", &StepIdentityError{Reason: "no pipeline", Err: errors.New("pipeline must be set")}
	}

	switch {
	case ec.StepUUID != "":
		return byUUID(ec.StepUUID, p)
	case ec.FilePath != "":
		return byFilePath(ec.FilePath, p)
	default:
		return "", &StepIdentityError{Reason: "empty execution context", Err: ErrContextMissing}
	}
}

func byUUID(uuid string, p *model.Pipeline) (string, error) {
	_, err := p.StepByUUID(uuid)
	if err != nil {
		return "", &StepIdentityError{
			Reason: fmt.Sprintf("step uuid %s", uuid),
			Err:    fmt.Errorf("%w: %w", ErrUnknownStep, err),
		}
	}

	return uuid, nil
}

func byFilePath(path string, p *model.Pipeline) (string, error) {
	steps, err := p.Steps()
	if err != nil {
		return "", &StepIdentityError{Reason: fmt.Sprintf("file %s", path), Err: err}
	}

	var matches []string
	for _, step := range steps {
		if step.FilePath() == path {
			matches = append(matches, step.UUID())
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", &StepIdentityError{Reason: fmt.Sprintf("file %s", path), Err: ErrNoStepForFile}
	default:
		return "", &StepIdentityError{
			Reason: fmt.Sprintf("file %s", path),
			Err:    errors.Wrapf(ErrAmbiguousFile, "steps %v", matches),
		}
	}
}
