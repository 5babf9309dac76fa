package sigctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const batchYAML = `api_url: %s
calls:
  - workflow_id: order-1
    workflow_type: CollectWorkflow
    task_queue: signalstart-tasks
    args: [36000000000000]
    signal: collectString
    signal_args: [v1]
  - workflow_id: order-1
    workflow_type: CollectWorkflow
    signal: collectString
    signal_args: [v2]
    await: true
`

type fakeAPI struct {
	mu     sync.Mutex
	bodies []map[string]any
	paths  []string
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/workflows/{id}/signal-with-start", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.bodies = append(f.bodies, body)
		started := len(f.bodies) == 1
		f.paths = append(f.paths, r.URL.Path)
		f.mu.Unlock()
		if body["workflow_type"] == "Missing" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": `unknown workflow type: "Missing"`})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"workflow_id": r.PathValue("id"), "run_id": "run-1", "started": started})
	})
	mux.HandleFunc("GET /api/v1/workflows/{id}/runs/{run}/result", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.paths = append(f.paths, r.URL.Path+"?"+r.URL.RawQuery)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"workflow_id": r.PathValue("id"), "run_id": r.PathValue("run"), "result": []string{"v1", "v2"}})
	})
	return mux
}

func writeBatch(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunBatch(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	path := writeBatch(t, fmtBatch(srv.URL))
	var out bytes.Buffer
	require.NoError(t, RunBatch(context.Background(), &out, path, "", 5*time.Second))

	assert.Equal(t, "started order-1 run run-1\n"+
		"signaled order-1 run run-1\n"+
		`result order-1 run run-1: ["v1","v2"]`+"\n", out.String())

	require.Len(t, api.bodies, 2)
	assert.Equal(t, "CollectWorkflow", api.bodies[0]["workflow_type"])
	assert.Equal(t, "signalstart-tasks", api.bodies[0]["task_queue"])
	assert.Equal(t, []any{float64(36000000000000)}, api.bodies[0]["args"])
	assert.Equal(t, []any{"v1"}, api.bodies[0]["signal_args"])
	assert.NotContains(t, api.bodies[1], "task_queue")
	assert.Equal(t, "/api/v1/workflows/order-1/runs/run-1/result?workflow_type=CollectWorkflow", api.paths[2])
}

func TestRunBatch_APIFlagOverridesFile(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	path := writeBatch(t, fmtBatch("http://127.0.0.1:1"))
	var out bytes.Buffer
	require.NoError(t, RunBatch(context.Background(), &out, path, srv.URL, 5*time.Second))
	assert.Len(t, api.bodies, 2)
}

func TestRunBatch_APIError(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	path := writeBatch(t, `calls:
  - workflow_id: x
    workflow_type: Missing
    signal: s
`)
	err := RunBatch(context.Background(), &bytes.Buffer{}, path, srv.URL, 5*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), `unknown workflow type: "Missing"`)
}

func TestRunBatch_NoAPIURL(t *testing.T) {
	path := writeBatch(t, "calls: []\n")
	err := RunBatch(context.Background(), &bytes.Buffer{}, path, "", time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API URL")
}

func TestLoadBatch_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing id", "calls:\n  - workflow_type: W\n    signal: s\n", "workflow_id is required"},
		{"missing type", "calls:\n  - workflow_id: a\n    signal: s\n", "workflow_type is required"},
		{"missing signal", "calls:\n  - workflow_id: a\n    workflow_type: W\n", "signal is required"},
		{"bad yaml", "calls: [", "parse batch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBatch(writeBatch(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadBatch_MissingFile(t *testing.T) {
	_, err := LoadBatch(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read batch")
}

func fmtBatch(url string) string {
	return fmt.Sprintf(batchYAML, url)
}
