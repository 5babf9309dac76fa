package stub

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/edvin/signalstart/internal/core"
)

// Definition is the type-erased view of a registered workflow type.
type Definition interface {
	Name() string
	Signals() []string
	AcceptsSignal(name string) bool
	// Result waits for the run behind h and returns its decoded result.
	Result(ctx context.Context, h *core.ExecutionHandle) (any, error)
}

// Workflow describes a workflow type whose result decodes into Out.
type Workflow[Out any] struct {
	name    string
	signals []string
}

func (w *Workflow[Out]) Name() string { return w.name }

func (w *Workflow[Out]) Signals() []string { return slices.Clone(w.signals) }

func (w *Workflow[Out]) AcceptsSignal(name string) bool {
	return slices.Contains(w.signals, name)
}

func (w *Workflow[Out]) Result(ctx context.Context, h *core.ExecutionHandle) (any, error) {
	var out Out
	if err := h.Get(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Registry maps workflow type names to their definitions. It is safe for
// concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Define registers a workflow type and the signals it accepts. Defining an
// existing name replaces the earlier definition.
//
// This is a package-level generic function because Go does not allow
// generic methods on non-generic receiver types.
func Define[Out any](r *Registry, name string, signals ...string) *Workflow[Out] {
	if name == "" {
		panic("stub: workflow name is required")
	}
	wf := &Workflow[Out]{name: name, signals: slices.Clone(signals)}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[name] = wf
	return wf
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkflow, name)
	}
	return def, nil
}

// Names returns the registered workflow type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
