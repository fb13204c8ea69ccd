package config

import "github.com/google/uuid"

// newRunID mints a per-run identifier; cmd/heliosmc prints it in the run's
// opening log line.
func newRunID() string {
	return uuid.NewString()
}
