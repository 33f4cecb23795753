package domain

import "time"

// DiscoveryRun records one discovery attempt made by SubmitConfig.
type DiscoveryRun struct {
	// ID is the unique identifier for the run.
	ID string

	// KnotDir is the working directory the knot lives in.
	KnotDir string

	// TapName and TapVersion identify the tap that was discovered.
	TapName    string
	TapVersion string

	// StartedAt is when staging began.
	StartedAt time.Time

	// EndedAt is when the workflow finished, successfully or not.
	EndedAt time.Time

	// Success indicates the catalog was read back.
	Success bool

	// Error holds the failure message for unsuccessful runs.
	Error string

	// StreamCount is the number of streams in the catalog.
	StreamCount int
}

// Duration returns how long the run took.
func (r *DiscoveryRun) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// StatusLabel returns "ok" or "failed" for display.
func (r *DiscoveryRun) StatusLabel() string {
	if r.Success {
		return "ok"
	}
	return "failed"
}
