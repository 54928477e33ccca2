// Package stats provides opt-in, low-overhead Prometheus counters for the
// three transforms: chains recovered, counters recovered, buses extracted,
// and SVA properties compiled, broken down by kind. It is safe to call
// from every pass unconditionally: when disabled, all public functions are
// no-ops, the same contract as the churn/telemetry package it is grounded
// on.
package stats

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls whether metrics are collected and, optionally, served.
type Config struct {
	Enabled bool
	// MetricsAddr, when non-empty, starts a dedicated HTTP server serving
	// /metrics. Empty disables the endpoint; metrics are still collected
	// in-process for a caller to read back via the registry directly.
	MetricsAddr string
}

var (
	modEnabled atomic.Bool

	addersRecoveredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "synthpass_adder_chains_recovered_total",
		Help: "Total adder/subtractor placeholder chains folded into $add/$sub/$alu cells, by emitted kind",
	}, []string{"kind"})

	countersRecoveredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "synthpass_tff_counters_recovered_total",
		Help: "Total toggle-flipflop chains folded into $__COUNT_ cells",
	})

	busesExtractedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "synthpass_buses_extracted_total",
		Help: "Total ports rewired from a concatenation of 1-bit nets to a single fresh wire",
	})

	svaPropertiesCompiledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "synthpass_sva_properties_compiled_total",
		Help: "Total SVA properties compiled, by verification cell kind emitted",
	}, []string{"kind"})

	chainWidth = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "synthpass_recovered_chain_width",
		Help:    "Distribution of recovered adder/counter chain widths",
		Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16, 24, 32, 48, 64},
	})
)

func init() {
	prometheus.MustRegister(addersRecoveredTotal, countersRecoveredTotal, busesExtractedTotal,
		svaPropertiesCompiledTotal, chainWidth)
}

// Enable turns metric collection on or off and, if cfg.MetricsAddr is set,
// starts an HTTP server exposing /metrics. Safe to call more than once.
func Enable(cfg Config) {
	modEnabled.Store(cfg.Enabled)
	if cfg.Enabled && cfg.MetricsAddr != "" {
		startMetricsEndpoint(cfg.MetricsAddr)
	}
}

// Enabled reports whether metric collection is currently on.
func Enabled() bool { return modEnabled.Load() }

// AdderRecovered records one adder/subtractor chain folded into the named
// cell kind ("add", "sub" or "alu") at the given chain width.
func AdderRecovered(kind string, width int) {
	if !modEnabled.Load() {
		return
	}
	addersRecoveredTotal.WithLabelValues(kind).Inc()
	chainWidth.Observe(float64(width))
}

// CounterRecovered records one TFF chain folded into a $__COUNT_ cell.
func CounterRecovered(width int) {
	if !modEnabled.Load() {
		return
	}
	countersRecoveredTotal.Inc()
	chainWidth.Observe(float64(width))
}

// BusExtracted records one port rewired to a fresh wire.
func BusExtracted() {
	if !modEnabled.Load() {
		return
	}
	busesExtractedTotal.Inc()
}

// SVAPropertyCompiled records one compiled property, by the verification
// cell kind emitted ("assert", "assume", "cover", "live" or "fair").
func SVAPropertyCompiled(kind string) {
	if !modEnabled.Load() {
		return
	}
	svaPropertiesCompiledTotal.WithLabelValues(kind).Inc()
}

func startMetricsEndpoint(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}
