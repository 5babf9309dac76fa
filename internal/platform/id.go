package platform

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// NewRequestID returns a fresh request ID. The Temporal frontend uses it to
// deduplicate transport-level retries of the same request.
func NewRequestID() string {
	return uuid.New().String()
}

// Identity returns the client identity reported to Temporal, in the same
// pid@host form the SDK uses, suffixed with the service name and a short
// random tag so restarted processes are distinguishable in history.
func Identity(service string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	if service == "" {
		service = "signalstart"
	}
	return fmt.Sprintf("%d@%s@%s-%s", os.Getpid(), host, service, uuid.New().String()[:8])
}
