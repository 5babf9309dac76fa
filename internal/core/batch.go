package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/edvin/signalstart/internal/metrics"
	"github.com/edvin/signalstart/internal/model"
)

// Batch collects the two halves of a signal-with-start call in any order:
//
//	handle, err := coord.NewBatch().
//		Add(start).
//		Add(signal).
//		Execute(ctx)
//
// Shape errors are remembered and reported by Execute.
type Batch struct {
	coord  *Coordinator
	start  *model.StartInvocation
	signal *model.SignalInvocation
	errs   []error
}

func (c *Coordinator) NewBatch() *Batch {
	return &Batch{coord: c}
}

func (b *Batch) Add(inv model.Invocation) *Batch {
	switch v := inv.(type) {
	case model.StartInvocation:
		if b.start != nil {
			b.errs = append(b.errs, fmt.Errorf("duplicate start for %s", v.Identity().WorkflowID))
			return b
		}
		b.start = &v
	case model.SignalInvocation:
		if b.signal != nil {
			b.errs = append(b.errs, fmt.Errorf("duplicate signal %q for %s", v.SignalName(), v.Identity().WorkflowID))
			return b
		}
		b.signal = &v
	default:
		b.errs = append(b.errs, fmt.Errorf("unsupported invocation %T", inv))
	}
	return b
}

// Execute issues the collected start and signal as one SignalWithStart call.
func (b *Batch) Execute(ctx context.Context) (*ExecutionHandle, error) {
	errs := b.errs
	if b.start == nil {
		errs = append(errs, errors.New("missing start"))
	}
	if b.signal == nil {
		errs = append(errs, errors.New("missing signal"))
	}
	if len(errs) > 0 {
		workflowType := ""
		if b.start != nil {
			workflowType = b.start.WorkflowType()
		}
		metrics.ObserveSignalWithStart(workflowType, metrics.OutcomeInvalid, 0)
		return nil, fmt.Errorf("signal-with-start batch: %w: %w", ErrInvalidInvocation, errors.Join(errs...))
	}
	return b.coord.SignalWithStart(ctx, *b.start, *b.signal)
}
