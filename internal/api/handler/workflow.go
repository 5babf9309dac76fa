package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edvin/signalstart/internal/api/request"
	"github.com/edvin/signalstart/internal/api/response"
	"github.com/edvin/signalstart/internal/core"
	"github.com/edvin/signalstart/internal/stub"
)

type Workflow struct {
	coord     *core.Coordinator
	registry  *stub.Registry
	taskQueue string
}

// NewWorkflow returns the workflow handlers. Requests that name no task
// queue are sent to taskQueue.
func NewWorkflow(coord *core.Coordinator, registry *stub.Registry, taskQueue string) *Workflow {
	return &Workflow{coord: coord, registry: registry, taskQueue: taskQueue}
}

type workflowTypeResponse struct {
	Name    string   `json:"name"`
	Signals []string `json:"signals"`
}

// ListTypes returns the registered workflow types and the signals each
// accepts.
func (h *Workflow) ListTypes(w http.ResponseWriter, r *http.Request) {
	names := h.registry.Names()
	types := make([]workflowTypeResponse, 0, len(names))
	for _, name := range names {
		def, err := h.registry.Lookup(name)
		if err != nil {
			continue
		}
		types = append(types, workflowTypeResponse{Name: def.Name(), Signals: def.Signals()})
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"items": types})
}

type signalWithStartResponse struct {
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`
	Started    bool   `json:"started"`
}

// SignalWithStart starts the workflow unless it is already running and
// delivers the signal to the run that owns the workflow ID.
func (h *Workflow) SignalWithStart(w http.ResponseWriter, r *http.Request) {
	workflowID, err := request.PathID(r, "workflowID")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.SignalWithStart
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	def, err := h.registry.Lookup(req.WorkflowType)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	taskQueue := req.TaskQueue
	if taskQueue == "" {
		taskQueue = h.taskQueue
	}
	execution, run := req.Timeouts()
	binding, err := stub.Bind(def, stub.Options{
		WorkflowID:       workflowID,
		TaskQueue:        taskQueue,
		ExecutionTimeout: execution,
		RunTimeout:       run,
	})
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	handle, err := binding.SignalWithStart(r.Context(), h.coord, req.Args, req.Signal, req.SignalArgs...)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("workflow_id", workflowID).Msg("signal-with-start failed")
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, signalWithStartResponse{
		WorkflowID: handle.WorkflowID(),
		RunID:      handle.RunID(),
		Started:    handle.Started(),
	})
}

type resultResponse struct {
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`
	Result     any    `json:"result"`
}

// Result blocks until the given run completes and returns its result,
// decoded as the result type of the workflow_type query parameter.
func (h *Workflow) Result(w http.ResponseWriter, r *http.Request) {
	workflowID, err := request.PathID(r, "workflowID")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	runID, err := request.PathID(r, "runID")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	workflowType := r.URL.Query().Get("workflow_type")
	if workflowType == "" {
		response.WriteError(w, http.StatusBadRequest, "missing workflow_type query parameter")
		return
	}

	def, err := h.registry.Lookup(workflowType)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	handle, err := h.coord.HandleFor(r.Context(), workflowID, runID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	result, err := def.Result(r.Context(), handle)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, resultResponse{
		WorkflowID: workflowID,
		RunID:      runID,
		Result:     result,
	})
}
