package model

import (
	"fmt"
	"slices"
	"time"
)

// Invocation is a built start or signal descriptor. It is implemented only by
// StartInvocation and SignalInvocation.
type Invocation interface {
	Identity() WorkflowIdentity
	invocation()
}

// StartInvocation describes a workflow start: which workflow type to run for
// an identity and with which arguments. It is immutable once built.
type StartInvocation struct {
	identity         WorkflowIdentity
	workflowType     string
	args             []any
	executionTimeout time.Duration
	runTimeout       time.Duration
	taskTimeout      time.Duration
}

func (s StartInvocation) invocation() {}

func (s StartInvocation) Identity() WorkflowIdentity { return s.identity }
func (s StartInvocation) WorkflowType() string       { return s.workflowType }

// Args returns a copy of the workflow arguments in call order.
func (s StartInvocation) Args() []any { return slices.Clone(s.args) }

func (s StartInvocation) ExecutionTimeout() time.Duration { return s.executionTimeout }
func (s StartInvocation) RunTimeout() time.Duration       { return s.runTimeout }
func (s StartInvocation) TaskTimeout() time.Duration      { return s.taskTimeout }

// IsZero reports whether s was declared but never built.
func (s StartInvocation) IsZero() bool {
	return s.workflowType == "" && s.identity == WorkflowIdentity{}
}

// SignalInvocation describes a signal delivery to the workflow owning an
// identity. It is immutable once built.
type SignalInvocation struct {
	identity   WorkflowIdentity
	signalName string
	args       []any
}

func (s SignalInvocation) invocation() {}

func (s SignalInvocation) Identity() WorkflowIdentity { return s.identity }
func (s SignalInvocation) SignalName() string         { return s.signalName }

// Args returns a copy of the signal arguments in call order.
func (s SignalInvocation) Args() []any { return slices.Clone(s.args) }

func (s SignalInvocation) IsZero() bool {
	return s.signalName == "" && s.identity == WorkflowIdentity{}
}

type startSpec struct {
	Identity         WorkflowIdentity
	WorkflowType     string        `validate:"required"`
	ExecutionTimeout time.Duration `validate:"gte=0"`
	RunTimeout       time.Duration `validate:"gte=0"`
	TaskTimeout      time.Duration `validate:"gte=0"`
}

// StartBuilder accumulates the optional parts of a StartInvocation.
//
//	start, err := model.NewStart(id, "CollectWorkflow").
//		Args(10 * time.Hour).
//		ExecutionTimeout(24 * time.Hour).
//		Build()
type StartBuilder struct {
	s StartInvocation
}

func NewStart(identity WorkflowIdentity, workflowType string) *StartBuilder {
	return &StartBuilder{s: StartInvocation{identity: identity, workflowType: workflowType}}
}

func (b *StartBuilder) Args(args ...any) *StartBuilder {
	b.s.args = append(b.s.args, args...)
	return b
}

func (b *StartBuilder) ExecutionTimeout(d time.Duration) *StartBuilder {
	b.s.executionTimeout = d
	return b
}

func (b *StartBuilder) RunTimeout(d time.Duration) *StartBuilder {
	b.s.runTimeout = d
	return b
}

func (b *StartBuilder) TaskTimeout(d time.Duration) *StartBuilder {
	b.s.taskTimeout = d
	return b
}

// Build validates the accumulated fields and returns an independent copy, so
// later calls on the builder do not affect the returned invocation.
func (b *StartBuilder) Build() (StartInvocation, error) {
	spec := startSpec{
		Identity:         b.s.identity,
		WorkflowType:     b.s.workflowType,
		ExecutionTimeout: b.s.executionTimeout,
		RunTimeout:       b.s.runTimeout,
		TaskTimeout:      b.s.taskTimeout,
	}
	if err := validate.Struct(spec); err != nil {
		return StartInvocation{}, fmt.Errorf("invalid start invocation: %w", err)
	}
	out := b.s
	out.args = slices.Clone(b.s.args)
	return out, nil
}

type signalSpec struct {
	Identity   WorkflowIdentity
	SignalName string `validate:"required"`
}

// SignalBuilder accumulates the arguments of a SignalInvocation.
type SignalBuilder struct {
	s SignalInvocation
}

func NewSignal(identity WorkflowIdentity, signalName string) *SignalBuilder {
	return &SignalBuilder{s: SignalInvocation{identity: identity, signalName: signalName}}
}

func (b *SignalBuilder) Args(args ...any) *SignalBuilder {
	b.s.args = append(b.s.args, args...)
	return b
}

func (b *SignalBuilder) Build() (SignalInvocation, error) {
	if err := validate.Struct(signalSpec{Identity: b.s.identity, SignalName: b.s.signalName}); err != nil {
		return SignalInvocation{}, fmt.Errorf("invalid signal invocation: %w", err)
	}
	out := b.s
	out.args = slices.Clone(b.s.args)
	return out, nil
}
