package pipeline

import (
	"errors"
	"fmt"
)

// ErrProcessFailed matches every ProcessError.
var ErrProcessFailed = errors.New("processing failed")

// ProcessError describes a failure that aborted processing of one document.
type ProcessError struct {
	RequestID string
	Stage     string
	BaseErr   error
	Detail    string
}

func (e *ProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (stage: %s, request: %s): %v: %s", ErrProcessFailed, e.Stage, e.RequestID, e.BaseErr, e.Detail)
	}
	return fmt.Sprintf("%s (stage: %s, request: %s): %v", ErrProcessFailed, e.Stage, e.RequestID, e.BaseErr)
}

func (e *ProcessError) Unwrap() error {
	return e.BaseErr
}

func (e *ProcessError) Is(target error) bool {
	return target == ErrProcessFailed || errors.Is(e.BaseErr, target)
}

func newStageError(requestID, stage string, err error) error {
	return &ProcessError{RequestID: requestID, Stage: stage, BaseErr: err}
}

func newPanicError(requestID, stage string, r any) error {
	return &ProcessError{
		RequestID: requestID,
		Stage:     stage,
		BaseErr:   errStagePanic,
		Detail:    fmt.Sprint(r),
	}
}

var errStagePanic = errors.New("stage panicked")
