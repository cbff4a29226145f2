package stages

import (
	"errors"
	"fmt"
)

var ErrAppNameRequired = errors.New("app-name is required to perform Terraform operations")

type UnknownStageError struct {
	Stage string
}

func NewUnknownStageError(stage string) error {
	return &UnknownStageError{Stage: stage}
}

func (e *UnknownStageError) Error() string {
	return fmt.Sprintf("unknown stage %q: should be one of %v", e.Stage, All)
}

// StageError reports a make target that failed for one lambda, with whatever it printed.
type StageError struct {
	Stage  Stage
	Lambda string
	Output string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed for %s lambda: %v\n\n******************\n\n%s\n******************", e.Stage, e.Lambda, e.Err, e.Output)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
