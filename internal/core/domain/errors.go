package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// Adapters wrap these together with the underlying cause so callers
// can match on either.
var (
	// ErrNotFound indicates a requested file or entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrParse indicates a file did not contain valid structured data.
	ErrParse = errors.New("parse error")

	// ErrIO indicates a file system operation failed.
	ErrIO = errors.New("io error")

	// ErrDiscovery indicates the discovery subprocess failed or wrote diagnostics.
	ErrDiscovery = errors.New("discovery failed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrWorkflowInProgress indicates another pipeline workflow is running.
	ErrWorkflowInProgress = errors.New("workflow in progress")

	// ErrDockerUnavailable indicates the docker binary could not be run.
	ErrDockerUnavailable = errors.New("docker unavailable")
)

// DiscoveryError describes a failed discovery subprocess.
// It matches ErrDiscovery with errors.Is.
type DiscoveryError struct {
	// Message is the captured stderr output, or the exec error text.
	Message string

	// ExitCode is the process exit code, -1 if the process never exited normally.
	ExitCode int

	// Err is the underlying cause, if any (exec error, context error).
	Err error
}

// Error implements the error interface.
func (e *DiscoveryError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("discovery failed (exit code %d)", e.ExitCode)
	}
	return fmt.Sprintf("discovery failed (exit code %d): %s", e.ExitCode, e.Message)
}

// Is reports whether target is ErrDiscovery.
func (e *DiscoveryError) Is(target error) bool {
	return target == ErrDiscovery
}

// Unwrap returns the underlying cause.
func (e *DiscoveryError) Unwrap() error {
	return e.Err
}
