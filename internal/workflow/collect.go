package workflow

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/edvin/signalstart/internal/model"
)

// CollectWorkflow accumulates the strings it receives on the "collectString"
// signal until wait has elapsed since the run started, then returns them in
// arrival order. Signals delivered by later signal-with-start calls land in
// the same run and do not restart the timer.
func CollectWorkflow(ctx workflow.Context, wait time.Duration) ([]string, error) {
	logger := workflow.GetLogger(ctx)
	signalCh := workflow.GetSignalChannel(ctx, model.CollectSignalName)

	var values []string
	timerFired := false

	selector := workflow.NewSelector(ctx)
	selector.AddReceive(signalCh, func(c workflow.ReceiveChannel, _ bool) {
		var v string
		c.Receive(ctx, &v)
		values = append(values, v)
	})
	selector.AddFuture(workflow.NewTimer(ctx, wait), func(workflow.Future) {
		timerFired = true
	})

	for !timerFired {
		selector.Select(ctx)
	}

	// Signals that arrived in the same workflow task as the timer.
	for {
		var v string
		if !signalCh.ReceiveAsync(&v) {
			break
		}
		values = append(values, v)
	}

	logger.Info("collect workflow done", "count", len(values))
	return values, nil
}
