package model

import "fmt"

// WorkflowIdentity names a logical workflow: the caller-assigned workflow ID
// that the backend keeps at most one running execution for, and the task
// queue its workers poll.
type WorkflowIdentity struct {
	WorkflowID string `json:"workflow_id" validate:"required,max=1000"`
	TaskQueue  string `json:"task_queue" validate:"required,max=1000"`
}

func (i WorkflowIdentity) String() string {
	return fmt.Sprintf("%s@%s", i.WorkflowID, i.TaskQueue)
}

// Validate reports a missing workflow ID or task queue.
func (i WorkflowIdentity) Validate() error {
	if err := validate.Struct(i); err != nil {
		return fmt.Errorf("invalid workflow identity: %w", err)
	}
	return nil
}
