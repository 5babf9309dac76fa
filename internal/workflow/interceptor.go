package workflow

import (
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/workflow"
)

// SignalLoggingInterceptor is a Temporal worker interceptor that logs every
// signal a workflow receives, including the one delivered together with the
// start of a signal-with-start call. It uses the workflow logger, so nothing
// is logged again during replay.
type SignalLoggingInterceptor struct {
	interceptor.WorkerInterceptorBase
}

func (s *SignalLoggingInterceptor) InterceptWorkflow(
	ctx workflow.Context,
	next interceptor.WorkflowInboundInterceptor,
) interceptor.WorkflowInboundInterceptor {
	i := &signalLoggingWorkflowInterceptor{}
	i.Next = next
	return i
}

type signalLoggingWorkflowInterceptor struct {
	interceptor.WorkflowInboundInterceptorBase
}

func (s *signalLoggingWorkflowInterceptor) HandleSignal(ctx workflow.Context, in *interceptor.HandleSignalInput) error {
	info := workflow.GetInfo(ctx)
	workflow.GetLogger(ctx).Info("signal received",
		"signal", in.SignalName,
		"workflow_type", info.WorkflowType.Name,
		"run_id", info.WorkflowExecution.RunID,
		"payloads", len(in.Arg.GetPayloads()))
	return s.Next.HandleSignal(ctx, in)
}
