// Package api exposes signal-with-start over HTTP: callers name a registered
// workflow type, a workflow ID and a signal, and get back the run that
// received the signal.
package api
