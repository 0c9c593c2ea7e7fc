// Package fakebackend serves deterministic synthetic contract-management reports
// for local runs and end-to-end tests of the risk dashboard.
package fakebackend

import (
	"strings"
	"time"
)

// Config holds configuration for the fake backend.
type Config struct {
	Addr         string        // Listen address
	Contracts    int           // Number of contracts in the directory
	Penalties    int           // Number of penalty rows
	Deliverables int           // Number of overdue deliverable rows
	Alerts       int           // Number of deadline alerts
	Seed         int64         // Random seed; the same seed yields the same dataset
	Latency      time.Duration // Artificial latency added to every response
	FailSources  []string      // Report paths answering 503, e.g. "penalties"
	Verbose      bool          // Log every request
}

// DefaultConfig returns a small dataset on :5000.
func DefaultConfig() Config {
	return Config{
		Addr:         ":5000",
		Contracts:    12,
		Penalties:    18,
		Deliverables: 10,
		Alerts:       8,
		Seed:         42,
	}
}

// ParseSources splits a comma-separated source list.
func ParseSources(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
