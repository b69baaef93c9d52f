// Package metrics exposes Prometheus counters for the scan and
// registration pipelines.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RegistrationsTotal counts completed registrations by the final
	// email status (pending never appears; it always resolves).
	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vms_registrations_total",
		Help: "Completed registrations by final email status.",
	}, []string{"email_status"})

	// ScansTotal counts scan submissions by outcome: accepted, repeat,
	// conflict, or rejected (auth/lookup failure).
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vms_scans_total",
		Help: "Scan submissions by outcome.",
	}, []string{"result"})

	// MirrorFailuresTotal counts swallowed mirror-sink write failures.
	MirrorFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vms_mirror_failures_total",
		Help: "Mirror sink writes that failed and were discarded.",
	})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
