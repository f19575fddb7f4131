package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncJWKSCacheHit is a no-op.
func (n *NoopRecorder) IncJWKSCacheHit() {}

// IncJWKSCacheMiss is a no-op.
func (n *NoopRecorder) IncJWKSCacheMiss() {}

// IncJWKSFetch is a no-op.
func (n *NoopRecorder) IncJWKSFetch(status string) {}

// ObserveJWKSFetchDuration is a no-op.
func (n *NoopRecorder) ObserveJWKSFetchDuration(duration time.Duration) {}

// IncAuthFailure is a no-op.
func (n *NoopRecorder) IncAuthFailure(reason string) {}

// IncAuthSuccess is a no-op.
func (n *NoopRecorder) IncAuthSuccess() {}

// IncPlantCreated is a no-op.
func (n *NoopRecorder) IncPlantCreated() {}

// IncPlantUpdated is a no-op.
func (n *NoopRecorder) IncPlantUpdated() {}

// IncPlantDeleted is a no-op.
func (n *NoopRecorder) IncPlantDeleted() {}

// IncInvoiceGenerated is a no-op.
func (n *NoopRecorder) IncInvoiceGenerated() {}

// IncRollupGenerated is a no-op.
func (n *NoopRecorder) IncRollupGenerated() {}
