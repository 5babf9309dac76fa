package core

import (
	"fmt"

	"github.com/rs/zerolog"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/converter"
)

// Options configures a Coordinator. Namespace must match the namespace the
// backend client was dialed with.
type Options struct {
	Namespace     string
	Identity      string
	DataConverter converter.DataConverter
	Logger        zerolog.Logger
	// IDReusePolicy decides whether a new run may start when the previous
	// run for the workflow ID has closed. Defaults to ALLOW_DUPLICATE.
	IDReusePolicy enumspb.WorkflowIdReusePolicy
}

// ParseIDReusePolicy converts the WORKFLOW_ID_REUSE_POLICY config value.
func ParseIDReusePolicy(s string) (enumspb.WorkflowIdReusePolicy, error) {
	switch s {
	case "", "allow-duplicate":
		return enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE, nil
	case "allow-duplicate-failed-only":
		return enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY, nil
	case "reject-duplicate":
		return enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE, nil
	default:
		return enumspb.WORKFLOW_ID_REUSE_POLICY_UNSPECIFIED, fmt.Errorf("unsupported workflow ID reuse policy %q", s)
	}
}
