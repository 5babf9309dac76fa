package core

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/api/workflowservice/v1"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"
	temporalmocks "go.temporal.io/sdk/mocks"
	"google.golang.org/grpc"
)

// fakeExecution is one run tracked by fakeService.
type fakeExecution struct {
	workflowType string
	taskQueue    string
	runID        string
	open         bool
	signals      []string
}

// fakeService stands in for the Temporal frontend. Like the real server it
// keeps at most one open execution per workflow ID and appends every signal
// to the execution that owns the ID when the request arrives. Signal payloads
// are decoded as strings.
type fakeService struct {
	workflowservice.WorkflowServiceClient

	mu         sync.Mutex
	dc         converter.DataConverter
	executions map[string][]*fakeExecution
	requests   []*workflowservice.SignalWithStartWorkflowExecutionRequest
	err        error
	emptyRunID bool
}

func newFakeService(dc converter.DataConverter) *fakeService {
	return &fakeService{dc: dc, executions: map[string][]*fakeExecution{}}
}

func (f *fakeService) SignalWithStartWorkflowExecution(
	_ context.Context,
	req *workflowservice.SignalWithStartWorkflowExecutionRequest,
	_ ...grpc.CallOption,
) (*workflowservice.SignalWithStartWorkflowExecutionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.emptyRunID {
		return &workflowservice.SignalWithStartWorkflowExecutionResponse{}, nil
	}

	runs := f.executions[req.GetWorkflowId()]
	var exec *fakeExecution
	started := false
	if len(runs) > 0 && runs[len(runs)-1].open {
		exec = runs[len(runs)-1]
	} else {
		exec = &fakeExecution{
			workflowType: req.GetWorkflowType().GetName(),
			taskQueue:    req.GetTaskQueue().GetName(),
			runID:        uuid.NewString(),
			open:         true,
		}
		f.executions[req.GetWorkflowId()] = append(runs, exec)
		started = true
	}

	for _, p := range req.GetSignalInput().GetPayloads() {
		var s string
		if err := f.dc.FromPayload(p, &s); err != nil {
			return nil, err
		}
		exec.signals = append(exec.signals, s)
	}

	return &workflowservice.SignalWithStartWorkflowExecutionResponse{
		RunId:   exec.runID,
		Started: started,
	}, nil
}

// complete closes the open execution for workflowID.
func (f *fakeService) complete(workflowID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	runs := f.executions[workflowID]
	if len(runs) > 0 {
		runs[len(runs)-1].open = false
	}
}

func (f *fakeService) runs(workflowID string) []*fakeExecution {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeExecution(nil), f.executions[workflowID]...)
}

func (f *fakeService) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// signalsOf returns the signals accumulated by a specific run.
func (f *fakeService) signalsOf(workflowID, runID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, exec := range f.executions[workflowID] {
		if exec.runID == runID {
			return append([]string(nil), exec.signals...)
		}
	}
	return nil
}

// fakeBackend implements Backend on top of fakeService. Runs returned by
// GetWorkflow report the signals accumulated by that exact run as their
// result, the way CollectWorkflow does.
type fakeBackend struct {
	svc *fakeService
}

func (b *fakeBackend) WorkflowService() workflowservice.WorkflowServiceClient {
	return b.svc
}

func (b *fakeBackend) GetWorkflow(_ context.Context, workflowID string, runID string) temporalclient.WorkflowRun {
	run := &temporalmocks.WorkflowRun{}
	run.On("GetID").Return(workflowID).Maybe()
	run.On("GetRunID").Return(runID).Maybe()
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		payloads, err := b.svc.dc.ToPayloads(b.svc.signalsOf(workflowID, runID))
		if err != nil {
			panic(err)
		}
		if err := b.svc.dc.FromPayloads(payloads, args.Get(1)); err != nil {
			panic(err)
		}
	}).Return(nil).Maybe()
	return run
}

func (b *fakeBackend) SignalWorkflow(_ context.Context, workflowID string, runID string, _ string, arg interface{}) error {
	b.svc.mu.Lock()
	defer b.svc.mu.Unlock()
	for _, exec := range b.svc.executions[workflowID] {
		if exec.runID == runID && exec.open {
			exec.signals = append(exec.signals, arg.(string))
			return nil
		}
	}
	return serviceerror.NewNotFound("workflow execution already completed")
}
