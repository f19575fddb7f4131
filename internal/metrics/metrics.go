// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Key set metrics
	IncJWKSCacheHit()
	IncJWKSCacheMiss()
	IncJWKSFetch(status string) // status: "success" or "failed"
	ObserveJWKSFetchDuration(duration time.Duration)

	// Authorization gate metrics
	IncAuthFailure(reason string)
	IncAuthSuccess()

	// Catalog management metrics
	IncPlantCreated()
	IncPlantUpdated()
	IncPlantDeleted()

	// Billing metrics
	IncInvoiceGenerated()
	IncRollupGenerated()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
