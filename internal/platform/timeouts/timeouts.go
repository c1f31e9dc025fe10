// Package timeouts defines shared timeout constants used across the service.
// Centralizing these values prevents drift between boundaries and makes the
// durations discoverable.
package timeouts

import "time"

// OracleRequest caps the time allowed for a single metadata oracle lookup.
const OracleRequest = 5 * time.Second

// Generation caps one full daily generation pass, including the candidate
// pool fetch.
const Generation = 30 * time.Second

// Rollover caps the day-rollover promotion sequence.
const Rollover = time.Minute

// Shutdown limits how long the runtime waits for in-flight work during
// graceful shutdown.
const Shutdown = 5 * time.Second
