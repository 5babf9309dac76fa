package workflow

import (
	"go.temporal.io/sdk/worker"

	"github.com/edvin/signalstart/internal/model"
	"github.com/edvin/signalstart/internal/stub"
)

const (
	CollectWorkflowName = "CollectWorkflow"
	SerialWorkflowName  = "SerialWorkflow"
)

// Define adds the workflows this package implements to r, so callers can
// build stubs for them by name.
func Define(r *stub.Registry) {
	stub.Define[[]string](r, CollectWorkflowName, model.CollectSignalName)
	stub.Define[int](r, SerialWorkflowName, model.EnqueueSignalName)
}

// Register registers the workflows this package implements on a worker.
func Register(w worker.WorkflowRegistry) {
	w.RegisterWorkflow(CollectWorkflow)
	w.RegisterWorkflow(SerialWorkflow)
}
