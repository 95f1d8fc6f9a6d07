package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrResolutionFailure: the provider answer had no usable shape.
	ErrResolutionFailure = errors.New("resolution failed")
	// ErrElementNotLive: a selector matched zero elements at action time.
	ErrElementNotLive = errors.New("element not found on page")
	// ErrActionFailure: the driver failed a click or fill on a live element.
	ErrActionFailure = errors.New("action failed")
	// ErrDiscoveryTimeout: no form appeared within the bounded wait.
	ErrDiscoveryTimeout = errors.New("form discovery timed out")
	// ErrProviderFailure: the inference call itself failed.
	ErrProviderFailure = errors.New("inference provider failed")
	// ErrNoTrigger is a sentinel, not a failure: the page has no visible
	// login gate.
	ErrNoTrigger = errors.New("no login trigger found")
)

// StepError records the outcome of one pipeline step.
type StepError struct {
	Step     string
	Err      error
	Terminal bool
}

func (e *StepError) Error() string {
	kind := "absorbed"
	if e.Terminal {
		kind = "terminal"
	}
	return fmt.Sprintf("%s (%s): %v", e.Step, kind, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
