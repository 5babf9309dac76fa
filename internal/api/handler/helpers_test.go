package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/converter"
	temporalmocks "go.temporal.io/sdk/mocks"
	"google.golang.org/grpc"

	"github.com/edvin/signalstart/internal/core"
)

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newRequestRaw creates a new HTTP request with a raw string body.
func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withChiURLParams adds chi URL parameters to the request context.
func withChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorResponse parses the JSON error response body into a map.
func decodeErrorResponse(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

// fakeWorkflowService answers SignalWithStartWorkflowExecution with a fixed
// run, or with err when set.
type fakeWorkflowService struct {
	workflowservice.WorkflowServiceClient

	mu       sync.Mutex
	requests []*workflowservice.SignalWithStartWorkflowExecutionRequest
	err      error
}

func (f *fakeWorkflowService) SignalWithStartWorkflowExecution(
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
	return &workflowservice.SignalWithStartWorkflowExecutionResponse{RunId: "run-1", Started: true}, nil
}

// newTestCoordinator returns a coordinator backed by a mocked Temporal
// client. Runs fetched through GetWorkflow return result, or resultErr.
func newTestCoordinator(result any, resultErr error) (*core.Coordinator, *fakeWorkflowService) {
	svc := &fakeWorkflowService{}
	wfRun := &temporalmocks.WorkflowRun{}
	call := wfRun.On("Get", mock.Anything, mock.Anything)
	if resultErr != nil {
		call.Return(resultErr)
	} else {
		call.Run(func(args mock.Arguments) {
			dc := converter.GetDefaultDataConverter()
			p, err := dc.ToPayload(result)
			if err != nil {
				panic(err)
			}
			if err := dc.FromPayload(p, args.Get(1)); err != nil {
				panic(err)
			}
		}).Return(nil)
	}
	call.Maybe()

	tc := &temporalmocks.Client{}
	tc.On("WorkflowService").Return(svc).Maybe()
	tc.On("GetWorkflow", mock.Anything, mock.Anything, mock.Anything).Return(wfRun).Maybe()
	return core.NewCoordinator(tc, core.Options{Logger: zerolog.Nop()}), svc
}
