package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/plantrent/plantrent/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "plantrent_jwks_cache_hits_total %d\n", snap.JWKSCacheHits)
	writeMetric(w, "plantrent_jwks_cache_misses_total %d\n", snap.JWKSCacheMisses)
	writeMetric(w, "plantrent_jwks_fetches_total{status=\"success\"} %d\n", snap.JWKSFetches)
	writeMetric(w, "plantrent_jwks_fetches_total{status=\"failed\"} %d\n", snap.JWKSFetchFailures)
	writeMetric(w, "plantrent_jwks_fetch_duration_seconds_count %d\n", snap.JWKSFetchDurationCount)
	writeMetric(w, "plantrent_jwks_fetch_duration_seconds_sum %.6f\n", float64(snap.JWKSFetchDurationNs)/1e9)

	writeMetric(w, "plantrent_auth_success_total %d\n", snap.AuthSuccesses)
	reasons := make([]string, 0, len(snap.AuthFailures))
	for reason := range snap.AuthFailures {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		writeMetric(w, "plantrent_auth_failures_total{reason=%q} %d\n", reason, snap.AuthFailures[reason])
	}

	writeMetric(w, "plantrent_plants_created_total %d\n", snap.PlantsCreated)
	writeMetric(w, "plantrent_plants_updated_total %d\n", snap.PlantsUpdated)
	writeMetric(w, "plantrent_plants_deleted_total %d\n", snap.PlantsDeleted)

	writeMetric(w, "plantrent_invoices_generated_total %d\n", snap.InvoicesGenerated)
	writeMetric(w, "plantrent_rollups_generated_total %d\n", snap.RollupsGenerated)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
