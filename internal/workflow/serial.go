package workflow

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/edvin/signalstart/internal/model"
)

const serialIdleTimeout = 5 * time.Minute

// serialMaxIterations bounds the tasks one run processes before it
// continues as new.
var serialMaxIterations = 1000

// SerialWorkflow runs the tasks it receives on the "enqueue" signal as child
// workflows, one at a time and in arrival order. Callers feed it through
// signal-with-start, so the first task starts the run and later tasks join
// it while it is still open.
//
// The workflow idles for up to 5 minutes between tasks and then completes.
// After 1000 tasks it continues as new to keep the event history bounded;
// unread signals are carried over by Temporal. The result is the number of
// tasks the run processed.
func SerialWorkflow(ctx workflow.Context) (int, error) {
	logger := workflow.GetLogger(ctx)
	signalCh := workflow.GetSignalChannel(ctx, model.EnqueueSignalName)

	processed := 0
	for processed < serialMaxIterations {
		task, ok := nextSerialTask(ctx, signalCh)
		if !ok {
			logger.Info("serial workflow idle, completing", "processed", processed)
			return processed, nil
		}
		if err := executeSerialTask(ctx, task); err != nil {
			logger.Error("serial task failed",
				"workflow", task.WorkflowName,
				"id", task.WorkflowID,
				"error", err)
		}
		processed++
	}
	return processed, workflow.NewContinueAsNewError(ctx, SerialWorkflow)
}

// nextSerialTask returns a buffered task if there is one, otherwise waits for
// the next signal. It reports false once the idle timeout passes first.
func nextSerialTask(ctx workflow.Context, signalCh workflow.ReceiveChannel) (model.SerialTask, bool) {
	var task model.SerialTask
	if signalCh.ReceiveAsync(&task) {
		return task, true
	}

	timerCtx, cancelTimer := workflow.WithCancel(ctx)
	defer cancelTimer()

	received := false
	workflow.NewSelector(ctx).
		AddReceive(signalCh, func(c workflow.ReceiveChannel, _ bool) {
			c.Receive(ctx, &task)
			received = true
		}).
		AddFuture(workflow.NewTimer(timerCtx, serialIdleTimeout), func(workflow.Future) {}).
		Select(ctx)
	return task, received
}

func executeSerialTask(ctx workflow.Context, task model.SerialTask) error {
	childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
		WorkflowID: task.WorkflowID,
		TaskQueue:  workflow.GetInfo(ctx).TaskQueueName,
	})
	return workflow.ExecuteChildWorkflow(childCtx, task.WorkflowName, task.Arg).Get(ctx, nil)
}
