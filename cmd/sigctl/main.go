package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edvin/signalstart/internal/sigctl"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "signal-with-start":
		fs := flag.NewFlagSet("signal-with-start", flag.ExitOnError)
		file := fs.String("f", "", "Path to batch YAML file (required)")
		apiURL := fs.String("api", "", "Core API base URL (overrides api_url in the file)")
		timeout := fs.Duration("timeout", 10*time.Minute, "Timeout per request, including result waits")
		fs.Parse(os.Args[2:])

		if *file == "" {
			fmt.Fprintln(os.Stderr, "Error: -f flag is required")
			fs.Usage()
			os.Exit(1)
		}

		if err := sigctl.RunBatch(ctx, os.Stdout, *file, *apiURL, *timeout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "result":
		fs := flag.NewFlagSet("result", flag.ExitOnError)
		apiURL := fs.String("api", "http://localhost:8090", "Core API base URL")
		workflowID := fs.String("workflow-id", "", "Workflow ID (required)")
		runID := fs.String("run-id", "", "Run ID (required)")
		workflowType := fs.String("type", "", "Workflow type (required)")
		timeout := fs.Duration("timeout", 10*time.Minute, "How long to wait for the run to complete")
		fs.Parse(os.Args[2:])

		if *workflowID == "" || *runID == "" || *workflowType == "" {
			fmt.Fprintln(os.Stderr, "Usage: sigctl result [-api URL] -workflow-id <id> -run-id <run> -type <workflow-type>")
			os.Exit(1)
		}

		result, err := sigctl.NewClient(*apiURL, *timeout).Result(ctx, *workflowID, *runID, *workflowType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(result))

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage:
  sigctl signal-with-start -f <batch.yaml> [-api URL] [-timeout 10m]
  sigctl result -workflow-id <id> -run-id <run> -type <workflow-type> [-api URL]`)
}
