package core

import (
	"errors"

	"go.temporal.io/api/serviceerror"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/edvin/signalstart/internal/metrics"
)

var (
	// ErrIdentityMismatch means the start and signal invocations of one
	// call target different workflow IDs or task queues.
	ErrIdentityMismatch = errors.New("start and signal target different workflows")
	// ErrInvalidInvocation means a descriptor was empty or a batch did not
	// hold exactly one start and one signal.
	ErrInvalidInvocation = errors.New("invalid invocation")
	// ErrBackendUnavailable means the Temporal frontend could not be reached.
	// It is never retried here; retry policy belongs to the caller or the
	// gRPC transport.
	ErrBackendUnavailable = errors.New("orchestration backend unavailable")
	// ErrAlreadyCompleted means the execution owning the workflow ID closed
	// and the backend refused to start a new run for it.
	ErrAlreadyCompleted = errors.New("workflow execution already completed")
)

// classify maps a backend error onto one of the sentinels above and the
// matching metrics outcome. Unrecognised errors return a nil sentinel and are
// surfaced unchanged.
func classify(err error) (error, string) {
	var (
		unavailable    *serviceerror.Unavailable
		deadline       *serviceerror.DeadlineExceeded
		alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	)
	switch {
	case errors.As(err, &unavailable), errors.As(err, &deadline):
		return ErrBackendUnavailable, metrics.OutcomeBackendUnavailable
	case errors.As(err, &alreadyStarted):
		return ErrAlreadyCompleted, metrics.OutcomeAlreadyCompleted
	}

	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrBackendUnavailable, metrics.OutcomeBackendUnavailable
	}
	return nil, metrics.OutcomeError
}

// classifySignal is classify for signals sent to a pinned run, where NotFound
// means that run has closed. Signal-with-start never sees NotFound for a
// closed run: the backend starts a new one instead.
func classifySignal(err error) error {
	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		return ErrAlreadyCompleted
	}
	sentinel, _ := classify(err)
	return sentinel
}
