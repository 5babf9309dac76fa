package core

import (
	"context"
	"fmt"
	"time"

	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
	taskqueuepb "go.temporal.io/api/taskqueue/v1"
	"go.temporal.io/api/workflowservice/v1"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/edvin/signalstart/internal/metrics"
	"github.com/edvin/signalstart/internal/model"
	"github.com/edvin/signalstart/internal/platform"
)

// Backend is the part of the Temporal client the coordinator talks to.
// go.temporal.io/sdk/client.Client satisfies it.
type Backend interface {
	WorkflowService() workflowservice.WorkflowServiceClient
	GetWorkflow(ctx context.Context, workflowID string, runID string) temporalclient.WorkflowRun
	SignalWorkflow(ctx context.Context, workflowID string, runID string, signalName string, arg interface{}) error
}

// Coordinator issues signal-with-start requests: start the workflow if no
// execution with its ID is running, then deliver the signal to whichever
// execution owns the ID. Both halves travel in a single request so that a
// concurrent start of the same ID cannot slip in between them.
//
// A Coordinator holds no per-call state and is safe for concurrent use.
type Coordinator struct {
	backend Backend
	opts    Options
}

func NewCoordinator(backend Backend, opts Options) *Coordinator {
	if opts.DataConverter == nil {
		opts.DataConverter = converter.GetDefaultDataConverter()
	}
	if opts.Namespace == "" {
		opts.Namespace = "default"
	}
	if opts.IDReusePolicy == enumspb.WORKFLOW_ID_REUSE_POLICY_UNSPECIFIED {
		opts.IDReusePolicy = enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE
	}
	return &Coordinator{backend: backend, opts: opts}
}

// SignalWithStart starts start's workflow unless an execution with the same
// workflow ID is already running, and delivers signal to the execution that
// owns the ID afterwards. The returned handle is bound to the run the backend
// reports, which may differ from any run the caller saw before.
//
// The request is not retried and carries no timeout of its own; ctx and the
// client's transport settings govern both. Once sent, the request may still
// take effect server-side even if ctx is cancelled.
func (c *Coordinator) SignalWithStart(ctx context.Context, start model.StartInvocation, signal model.SignalInvocation) (*ExecutionHandle, error) {
	identity := start.Identity()
	workflowType := start.WorkflowType()

	if start.IsZero() || signal.IsZero() || workflowType == "" || signal.SignalName() == "" {
		metrics.ObserveSignalWithStart(workflowType, metrics.OutcomeInvalid, 0)
		return nil, fmt.Errorf("signal-with-start %q: %w: workflow type and signal name are required",
			identity.WorkflowID, ErrInvalidInvocation)
	}
	if identity != signal.Identity() {
		metrics.ObserveSignalWithStart(workflowType, metrics.OutcomeIdentityMismatch, 0)
		return nil, fmt.Errorf("signal-with-start %q: %w: start targets %s, signal targets %s",
			identity.WorkflowID, ErrIdentityMismatch, identity, signal.Identity())
	}

	logger := c.opts.Logger.With().
		Str("workflow_id", identity.WorkflowID).
		Str("workflow_type", workflowType).
		Str("signal", signal.SignalName()).
		Logger()

	req, err := c.buildRequest(start, signal)
	if err != nil {
		metrics.ObserveSignalWithStart(workflowType, metrics.OutcomeInvalid, 0)
		return nil, fmt.Errorf("signal-with-start %q: %w: %w", identity.WorkflowID, ErrInvalidInvocation, err)
	}

	begin := time.Now()
	resp, err := c.backend.WorkflowService().SignalWithStartWorkflowExecution(ctx, req)
	elapsed := time.Since(begin)
	if err != nil {
		sentinel, outcome := classify(err)
		metrics.ObserveSignalWithStart(workflowType, outcome, elapsed)
		logger.Warn().Err(err).Str("outcome", outcome).Msg("signal-with-start failed")
		if sentinel != nil {
			return nil, fmt.Errorf("signal-with-start %q: %w: %w", identity.WorkflowID, sentinel, err)
		}
		return nil, fmt.Errorf("signal-with-start %q: %w", identity.WorkflowID, err)
	}

	runID := resp.GetRunId()
	if runID == "" {
		metrics.ObserveSignalWithStart(workflowType, metrics.OutcomeError, elapsed)
		return nil, fmt.Errorf("signal-with-start %q: backend returned no run ID", identity.WorkflowID)
	}

	outcome := metrics.OutcomeSignaled
	if resp.GetStarted() {
		outcome = metrics.OutcomeStarted
	}
	metrics.ObserveSignalWithStart(workflowType, outcome, elapsed)
	logger.Debug().
		Str("run_id", runID).
		Bool("started", resp.GetStarted()).
		Dur("elapsed", elapsed).
		Msg("signal-with-start delivered")

	return &ExecutionHandle{
		identity: identity,
		runID:    runID,
		started:  resp.GetStarted(),
		backend:  c.backend,
		run:      c.backend.GetWorkflow(ctx, identity.WorkflowID, runID),
	}, nil
}

// HandleFor re-attaches to a run whose ID an earlier SignalWithStart
// returned, for example across an HTTP request boundary. runID must be the
// RunID of such a handle; never pass a guessed or constructed value. The
// backend rejects runs it does not know when the handle is used, so Get and
// Signal fail rather than reach another execution.
func (c *Coordinator) HandleFor(ctx context.Context, workflowID, runID string) (*ExecutionHandle, error) {
	if workflowID == "" || runID == "" {
		return nil, fmt.Errorf("%w: workflow ID and run ID are required", ErrInvalidInvocation)
	}
	return &ExecutionHandle{
		identity: model.WorkflowIdentity{WorkflowID: workflowID},
		runID:    runID,
		backend:  c.backend,
		run:      c.backend.GetWorkflow(ctx, workflowID, runID),
	}, nil
}

func (c *Coordinator) buildRequest(start model.StartInvocation, signal model.SignalInvocation) (*workflowservice.SignalWithStartWorkflowExecutionRequest, error) {
	input, err := c.encode(start.Args())
	if err != nil {
		return nil, fmt.Errorf("encode workflow arguments: %w", err)
	}
	signalInput, err := c.encode(signal.Args())
	if err != nil {
		return nil, fmt.Errorf("encode signal arguments: %w", err)
	}

	identity := start.Identity()
	return &workflowservice.SignalWithStartWorkflowExecutionRequest{
		Namespace:                c.opts.Namespace,
		RequestId:                platform.NewRequestID(),
		WorkflowId:               identity.WorkflowID,
		WorkflowType:             &commonpb.WorkflowType{Name: start.WorkflowType()},
		TaskQueue:                &taskqueuepb.TaskQueue{Name: identity.TaskQueue, Kind: enumspb.TASK_QUEUE_KIND_NORMAL},
		Input:                    input,
		WorkflowExecutionTimeout: optionalDuration(start.ExecutionTimeout()),
		WorkflowRunTimeout:       optionalDuration(start.RunTimeout()),
		WorkflowTaskTimeout:      optionalDuration(start.TaskTimeout()),
		Identity:                 c.opts.Identity,
		WorkflowIdReusePolicy:    c.opts.IDReusePolicy,
		WorkflowIdConflictPolicy: enumspb.WORKFLOW_ID_CONFLICT_POLICY_USE_EXISTING,
		SignalName:               signal.SignalName(),
		SignalInput:              signalInput,
	}, nil
}

func (c *Coordinator) encode(args []any) (*commonpb.Payloads, error) {
	if len(args) == 0 {
		return nil, nil
	}
	return c.opts.DataConverter.ToPayloads(args...)
}

// optionalDuration leaves unset timeouts nil so the server default applies.
func optionalDuration(d time.Duration) *durationpb.Duration {
	if d <= 0 {
		return nil
	}
	return durationpb.New(d)
}
