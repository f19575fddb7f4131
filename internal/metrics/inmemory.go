package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	JWKSCacheHits          uint64
	JWKSCacheMisses        uint64
	JWKSFetches            uint64
	JWKSFetchFailures      uint64
	JWKSFetchDurationCount uint64
	JWKSFetchDurationNs    int64
	AuthSuccesses          uint64
	AuthFailures           map[string]uint64
	PlantsCreated          uint64
	PlantsUpdated          uint64
	PlantsDeleted          uint64
	InvoicesGenerated      uint64
	RollupsGenerated       uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	jwksCacheHits          uint64
	jwksCacheMisses        uint64
	jwksFetches            uint64
	jwksFetchFailures      uint64
	jwksFetchDurationCount uint64
	jwksFetchDurationNs    int64
	authSuccesses          uint64
	plantsCreated          uint64
	plantsUpdated          uint64
	plantsDeleted          uint64
	invoicesGenerated      uint64
	rollupsGenerated       uint64

	mu           sync.Mutex
	authFailures map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{authFailures: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	failures := make(map[string]uint64, len(m.authFailures))
	for reason, n := range m.authFailures {
		failures[reason] = n
	}
	m.mu.Unlock()

	return Snapshot{
		JWKSCacheHits:          atomic.LoadUint64(&m.jwksCacheHits),
		JWKSCacheMisses:        atomic.LoadUint64(&m.jwksCacheMisses),
		JWKSFetches:            atomic.LoadUint64(&m.jwksFetches),
		JWKSFetchFailures:      atomic.LoadUint64(&m.jwksFetchFailures),
		JWKSFetchDurationCount: atomic.LoadUint64(&m.jwksFetchDurationCount),
		JWKSFetchDurationNs:    atomic.LoadInt64(&m.jwksFetchDurationNs),
		AuthSuccesses:          atomic.LoadUint64(&m.authSuccesses),
		AuthFailures:           failures,
		PlantsCreated:          atomic.LoadUint64(&m.plantsCreated),
		PlantsUpdated:          atomic.LoadUint64(&m.plantsUpdated),
		PlantsDeleted:          atomic.LoadUint64(&m.plantsDeleted),
		InvoicesGenerated:      atomic.LoadUint64(&m.invoicesGenerated),
		RollupsGenerated:       atomic.LoadUint64(&m.rollupsGenerated),
	}
}

// IncJWKSCacheHit increments the key set cache hit counter.
func (m *InMemoryRecorder) IncJWKSCacheHit() {
	atomic.AddUint64(&m.jwksCacheHits, 1)
}

// IncJWKSCacheMiss increments the key set cache miss counter.
func (m *InMemoryRecorder) IncJWKSCacheMiss() {
	atomic.AddUint64(&m.jwksCacheMisses, 1)
}

// IncJWKSFetch counts a key set fetch by outcome.
func (m *InMemoryRecorder) IncJWKSFetch(status string) {
	if status == "success" {
		atomic.AddUint64(&m.jwksFetches, 1)
		return
	}
	atomic.AddUint64(&m.jwksFetchFailures, 1)
}

// ObserveJWKSFetchDuration records how long a key set fetch took, retries included.
func (m *InMemoryRecorder) ObserveJWKSFetchDuration(duration time.Duration) {
	atomic.AddUint64(&m.jwksFetchDurationCount, 1)
	atomic.AddInt64(&m.jwksFetchDurationNs, duration.Nanoseconds())
}

// IncAuthFailure counts a rejected request by reason.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	m.mu.Lock()
	m.authFailures[reason]++
	m.mu.Unlock()
}

// IncAuthSuccess counts an authorized request.
func (m *InMemoryRecorder) IncAuthSuccess() {
	atomic.AddUint64(&m.authSuccesses, 1)
}

// IncPlantCreated increments plant created counter.
func (m *InMemoryRecorder) IncPlantCreated() {
	atomic.AddUint64(&m.plantsCreated, 1)
}

// IncPlantUpdated increments plant updated counter.
func (m *InMemoryRecorder) IncPlantUpdated() {
	atomic.AddUint64(&m.plantsUpdated, 1)
}

// IncPlantDeleted increments plant deleted counter.
func (m *InMemoryRecorder) IncPlantDeleted() {
	atomic.AddUint64(&m.plantsDeleted, 1)
}

// IncInvoiceGenerated increments invoice counter.
func (m *InMemoryRecorder) IncInvoiceGenerated() {
	atomic.AddUint64(&m.invoicesGenerated, 1)
}

// IncRollupGenerated increments rollup counter.
func (m *InMemoryRecorder) IncRollupGenerated() {
	atomic.AddUint64(&m.rollupsGenerated, 1)
}
