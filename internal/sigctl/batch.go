package sigctl

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BatchConfig is the YAML file read by "sigctl signal-with-start".
type BatchConfig struct {
	APIURL string `yaml:"api_url"`
	Calls  []Call `yaml:"calls"`
}

// Call is one signal-with-start request. Calls that share a workflow ID
// land in the same run while it is open.
type Call struct {
	WorkflowID       string `yaml:"workflow_id"`
	WorkflowType     string `yaml:"workflow_type"`
	TaskQueue        string `yaml:"task_queue"`
	Args             []any  `yaml:"args"`
	ExecutionTimeout string `yaml:"execution_timeout"`
	RunTimeout       string `yaml:"run_timeout"`
	Signal           string `yaml:"signal"`
	SignalArgs       []any  `yaml:"signal_args"`
	// Await waits for the run to complete and prints its result.
	Await bool `yaml:"await"`
}

func (c Call) body() map[string]any {
	b := map[string]any{
		"workflow_type": c.WorkflowType,
		"signal":        c.Signal,
	}
	if c.TaskQueue != "" {
		b["task_queue"] = c.TaskQueue
	}
	if len(c.Args) > 0 {
		b["args"] = c.Args
	}
	if len(c.SignalArgs) > 0 {
		b["signal_args"] = c.SignalArgs
	}
	if c.ExecutionTimeout != "" {
		b["execution_timeout"] = c.ExecutionTimeout
	}
	if c.RunTimeout != "" {
		b["run_timeout"] = c.RunTimeout
	}
	return b
}

func (c Call) validate() error {
	switch {
	case c.WorkflowID == "":
		return fmt.Errorf("workflow_id is required")
	case c.WorkflowType == "":
		return fmt.Errorf("workflow_type is required")
	case c.Signal == "":
		return fmt.Errorf("signal is required")
	}
	return nil
}

func LoadBatch(path string) (*BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	var cfg BatchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}
	for i, call := range cfg.Calls {
		if err := call.validate(); err != nil {
			return nil, fmt.Errorf("call %d: %w", i, err)
		}
	}
	return &cfg, nil
}

// RunBatch sends the calls in file order and stops at the first failure.
// An apiURL flag overrides the file's api_url.
func RunBatch(ctx context.Context, out io.Writer, path, apiURL string, timeout time.Duration) error {
	cfg, err := LoadBatch(path)
	if err != nil {
		return err
	}
	if apiURL == "" {
		apiURL = cfg.APIURL
	}
	if apiURL == "" {
		return fmt.Errorf("no API URL: set api_url in the batch file or pass -api")
	}

	client := NewClient(apiURL, timeout)
	for i, call := range cfg.Calls {
		res, err := client.SignalWithStart(ctx, call)
		if err != nil {
			return fmt.Errorf("call %d (%s): %w", i, call.WorkflowID, err)
		}
		verb := "signaled"
		if res.Started {
			verb = "started"
		}
		fmt.Fprintf(out, "%s %s run %s\n", verb, res.WorkflowID, res.RunID)

		if call.Await {
			result, err := client.Result(ctx, res.WorkflowID, res.RunID, call.WorkflowType)
			if err != nil {
				return fmt.Errorf("call %d (%s): %w", i, call.WorkflowID, err)
			}
			fmt.Fprintf(out, "result %s run %s: %s\n", res.WorkflowID, res.RunID, result)
		}
	}
	return nil
}
