package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/workflowservice/v1"
	temporalmocks "go.temporal.io/sdk/mocks"
	"google.golang.org/grpc"

	"github.com/edvin/signalstart/internal/config"
	"github.com/edvin/signalstart/internal/core"
	"github.com/edvin/signalstart/internal/stub"
	"github.com/edvin/signalstart/internal/workflow"
)

type stubService struct {
	workflowservice.WorkflowServiceClient
}

func (stubService) SignalWithStartWorkflowExecution(
	context.Context,
	*workflowservice.SignalWithStartWorkflowExecutionRequest,
	...grpc.CallOption,
) (*workflowservice.SignalWithStartWorkflowExecutionResponse, error) {
	return &workflowservice.SignalWithStartWorkflowExecutionResponse{RunId: "run-7", Started: false}, nil
}

func newTestServer() *Server {
	tc := &temporalmocks.Client{}
	tc.On("WorkflowService").Return(stubService{}).Maybe()
	tc.On("GetWorkflow", mock.Anything, mock.Anything, mock.Anything).Return(&temporalmocks.WorkflowRun{}).Maybe()

	registry := stub.NewRegistry()
	workflow.Define(registry)
	coord := core.NewCoordinator(tc, core.Options{Logger: zerolog.Nop()})
	return NewServer(zerolog.Nop(), coord, registry, &config.Config{TaskQueue: "default-queue"})
}

func TestServer_Healthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_WorkflowTypes(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/workflow-types", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"CollectWorkflow"`)
	assert.Contains(t, rec.Body.String(), `"SerialWorkflow"`)
}

func TestServer_SignalWithStartRoute(t *testing.T) {
	body, err := json.Marshal(map[string]any{
		"workflow_type": workflow.SerialWorkflowName,
		"signal":        "enqueue",
		"signal_args": []any{map[string]any{
			"workflow_name": "CollectWorkflow",
			"workflow_id":   "child-1",
		}},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workflows/order-1/signal-with-start", bytes.NewReader(body))
	newTestServer().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"workflow_id":"order-1","run_id":"run-7","started":false}`, rec.Body.String())
}

func TestServer_UnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
