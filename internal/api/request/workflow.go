package request

import "time"

// SignalWithStart is the body of POST /workflows/{workflowID}/signal-with-start.
type SignalWithStart struct {
	WorkflowType     string `json:"workflow_type" validate:"required"`
	TaskQueue        string `json:"task_queue,omitempty" validate:"max=1000"`
	Args             []any  `json:"args"`
	ExecutionTimeout string `json:"execution_timeout,omitempty" validate:"duration"`
	RunTimeout       string `json:"run_timeout,omitempty" validate:"duration"`
	Signal           string `json:"signal" validate:"required"`
	SignalArgs       []any  `json:"signal_args"`
}

// Timeouts returns the parsed execution and run timeouts. Decode has already
// validated both, so unset or invalid values come back as zero.
func (s SignalWithStart) Timeouts() (execution, run time.Duration) {
	execution, _ = time.ParseDuration(s.ExecutionTimeout)
	run, _ = time.ParseDuration(s.RunTimeout)
	return execution, run
}
