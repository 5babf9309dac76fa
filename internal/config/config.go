package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	TemporalAddress   string
	TemporalNamespace string
	// TaskQueue is the queue the worker polls and the API starts workflows on
	// when a request does not name one.
	TaskQueue string

	TemporalTLSCert       string
	TemporalTLSKey        string
	TemporalTLSCACert     string
	TemporalTLSServerName string
	// TemporalAPIKey is sent as the "authorization" gRPC header on every
	// call to the frontend.
	TemporalAPIKey string

	HTTPListenAddr string
	MetricsAddr    string
	LogLevel       string
	ServiceName    string

	// PayloadCodec selects how workflow and signal arguments are encoded on
	// the wire: "json" (default) or "zlib" (JSON compressed with zlib).
	PayloadCodec string
	// WorkflowIDReusePolicy controls whether signal-with-start may begin a
	// new run once the previous run for the same workflow ID has closed.
	WorkflowIDReusePolicy string
}

func Load() (*Config, error) {
	cfg := &Config{
		TemporalAddress:       getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		TemporalNamespace:     getEnv("TEMPORAL_NAMESPACE", "default"),
		TaskQueue:             getEnv("TASK_QUEUE", "signalstart-tasks"),
		TemporalTLSCert:       getEnv("TEMPORAL_TLS_CERT", ""),
		TemporalTLSKey:        getEnv("TEMPORAL_TLS_KEY", ""),
		TemporalTLSCACert:     getEnv("TEMPORAL_TLS_CA_CERT", ""),
		TemporalTLSServerName: getEnv("TEMPORAL_TLS_SERVER_NAME", ""),
		TemporalAPIKey:        getEnv("TEMPORAL_API_KEY", ""),
		HTTPListenAddr:        getEnv("HTTP_LISTEN_ADDR", ":8090"),
		MetricsAddr:           getEnv("METRICS_ADDR", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		ServiceName:           getEnv("SERVICE_NAME", ""),
		PayloadCodec:          getEnv("PAYLOAD_CODEC", "json"),
		WorkflowIDReusePolicy: getEnv("WORKFLOW_ID_REUSE_POLICY", "allow-duplicate"),
	}

	return cfg, nil
}

// Validate checks that the fields required by the given role are present.
// All problems are reported in a single error.
func (c *Config) Validate(role string) error {
	var missing []string

	require := func(value, name string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	require(c.TemporalAddress, "TEMPORAL_ADDRESS")
	require(c.TemporalNamespace, "TEMPORAL_NAMESPACE")

	switch role {
	case "worker":
		require(c.TaskQueue, "TASK_QUEUE")
	case "core-api":
		require(c.HTTPListenAddr, "HTTP_LISTEN_ADDR")
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "missing required config: "+strings.Join(missing, ", "))
	}
	if (c.TemporalTLSCert == "") != (c.TemporalTLSKey == "") {
		problems = append(problems, "TEMPORAL_TLS_CERT and TEMPORAL_TLS_KEY must both be set")
	}
	switch c.PayloadCodec {
	case "", "json", "zlib":
	default:
		problems = append(problems, fmt.Sprintf("unsupported PAYLOAD_CODEC %q", c.PayloadCodec))
	}
	switch c.WorkflowIDReusePolicy {
	case "", "allow-duplicate", "allow-duplicate-failed-only", "reject-duplicate":
	default:
		problems = append(problems, fmt.Sprintf("unsupported WORKFLOW_ID_REUSE_POLICY %q", c.WorkflowIDReusePolicy))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s: %s", role, strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
