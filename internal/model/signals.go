package model

// EnqueueSignalName is the signal SerialWorkflow consumes its tasks from.
const EnqueueSignalName = "enqueue"

// CollectSignalName is the signal CollectWorkflow accumulates strings from.
const CollectSignalName = "collectString"

// SerialTask is a unit of work run as a child workflow by SerialWorkflow,
// one at a time in the order the signals arrived.
type SerialTask struct {
	WorkflowName string `json:"workflow_name" validate:"required"`
	WorkflowID   string `json:"workflow_id" validate:"required"`
	Arg          any    `json:"arg,omitempty"`
}
