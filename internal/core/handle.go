package core

import (
	"context"
	"fmt"

	temporalclient "go.temporal.io/sdk/client"

	"github.com/edvin/signalstart/internal/model"
)

// ExecutionHandle refers to the concrete run that received a signal. It is
// only created from a backend response, so its run ID is always one the
// backend reported.
type ExecutionHandle struct {
	identity model.WorkflowIdentity
	runID    string
	started  bool
	backend  Backend
	run      temporalclient.WorkflowRun
}

func (h *ExecutionHandle) Identity() model.WorkflowIdentity { return h.identity }
func (h *ExecutionHandle) WorkflowID() string               { return h.identity.WorkflowID }
func (h *ExecutionHandle) RunID() string                    { return h.runID }

// Started reports whether the call that produced the handle created the run,
// as opposed to signalling one that was already running.
func (h *ExecutionHandle) Started() bool { return h.started }

// Get blocks until the run completes and decodes its result into valuePtr.
// A nil valuePtr waits for completion and discards the result.
func (h *ExecutionHandle) Get(ctx context.Context, valuePtr interface{}) error {
	if err := h.run.Get(ctx, valuePtr); err != nil {
		return fmt.Errorf("get result of %s (run %s): %w", h.identity.WorkflowID, h.runID, err)
	}
	return nil
}

// Signal sends a further signal to the same run.
func (h *ExecutionHandle) Signal(ctx context.Context, signalName string, arg interface{}) error {
	if signalName == "" {
		return fmt.Errorf("signal %s: %w: empty signal name", h.identity.WorkflowID, ErrInvalidInvocation)
	}
	if err := h.backend.SignalWorkflow(ctx, h.identity.WorkflowID, h.runID, signalName, arg); err != nil {
		if sentinel := classifySignal(err); sentinel != nil {
			return fmt.Errorf("signal %s (run %s): %w: %w", h.identity.WorkflowID, h.runID, sentinel, err)
		}
		return fmt.Errorf("signal %s (run %s): %w", h.identity.WorkflowID, h.runID, err)
	}
	return nil
}
