// Package stub binds registered workflow types to a workflow identity and
// turns calls on the binding into the start and signal descriptors the core
// coordinator consumes.
package stub

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edvin/signalstart/internal/core"
	"github.com/edvin/signalstart/internal/model"
)

var (
	ErrUnknownWorkflow = errors.New("unknown workflow type")
	ErrUnknownSignal   = errors.New("unknown signal")
)

// Options are the per-stub start options shared by every descriptor a
// binding produces.
type Options struct {
	WorkflowID       string
	TaskQueue        string
	ExecutionTimeout time.Duration
	RunTimeout       time.Duration
}

func (o Options) identity() model.WorkflowIdentity {
	return model.WorkflowIdentity{WorkflowID: o.WorkflowID, TaskQueue: o.TaskQueue}
}

// Binding is a definition bound to one workflow identity. Start and Signal
// record the intended call instead of performing it.
type Binding struct {
	def  Definition
	opts Options
}

func Bind(def Definition, opts Options) (*Binding, error) {
	if err := opts.identity().Validate(); err != nil {
		return nil, fmt.Errorf("bind %s: %w", def.Name(), err)
	}
	return &Binding{def: def, opts: opts}, nil
}

func (b *Binding) Definition() Definition { return b.def }

func (b *Binding) Start(args ...any) (model.StartInvocation, error) {
	return model.NewStart(b.opts.identity(), b.def.Name()).
		Args(args...).
		ExecutionTimeout(b.opts.ExecutionTimeout).
		RunTimeout(b.opts.RunTimeout).
		Build()
}

func (b *Binding) Signal(name string, args ...any) (model.SignalInvocation, error) {
	if !b.def.AcceptsSignal(name) {
		return model.SignalInvocation{}, fmt.Errorf("%w %q for workflow type %s", ErrUnknownSignal, name, b.def.Name())
	}
	return model.NewSignal(b.opts.identity(), name).Args(args...).Build()
}

// SignalWithStart records the start and the signal on the binding and sends
// them as one combined call.
func (b *Binding) SignalWithStart(ctx context.Context, coord *core.Coordinator, startArgs []any, signal string, signalArgs ...any) (*core.ExecutionHandle, error) {
	start, err := b.Start(startArgs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidInvocation, err)
	}
	sig, err := b.Signal(signal, signalArgs...)
	if err != nil {
		if errors.Is(err, ErrUnknownSignal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidInvocation, err)
	}
	return coord.SignalWithStart(ctx, start, sig)
}

// Stub is the typed form of a Binding.
type Stub[Out any] struct {
	*Binding
}

func New[Out any](wf *Workflow[Out], opts Options) (*Stub[Out], error) {
	b, err := Bind(wf, opts)
	if err != nil {
		return nil, err
	}
	return &Stub[Out]{Binding: b}, nil
}

func (s *Stub[Out]) SignalWithStart(ctx context.Context, coord *core.Coordinator, startArgs []any, signal string, signalArgs ...any) (*Handle[Out], error) {
	h, err := s.Binding.SignalWithStart(ctx, coord, startArgs, signal, signalArgs...)
	if err != nil {
		return nil, err
	}
	return &Handle[Out]{ExecutionHandle: h}, nil
}

// Handle is an execution handle whose result decodes into Out.
type Handle[Out any] struct {
	*core.ExecutionHandle
}

func (h *Handle[Out]) Result(ctx context.Context) (Out, error) {
	var out Out
	err := h.Get(ctx, &out)
	return out, err
}
