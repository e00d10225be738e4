// Package metrics implements C11: an end-of-run Prometheus
// textfile-collector export (check counts, duration, criticality
// histogram) for CI scraping via node_exporter's textfile collector,
// using promauto metric declarations generalized from per-request HTTP
// counters to per-run validation counters.
package metrics

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/expfmt"
)

// Registry holds one run's worth of metrics, separate from the global
// default registry so concurrent validations (e.g. a batch CLI
// invocation checking several DCPs) don't clobber each other's counts.
type Registry struct {
	registry *prometheus.Registry

	checksTotal      *prometheus.CounterVec
	checkDuration    *prometheus.HistogramVec
	findingsTotal    *prometheus.CounterVec
	runDuration      prometheus.Gauge
	verdict          *prometheus.GaugeVec
}

// New builds a fresh Registry for one validation run.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		checksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clairmeta_checks_total",
			Help: "Total number of checks executed, by bypass state",
		}, []string{"bypassed"}),
		checkDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clairmeta_check_duration_seconds",
			Help:    "Per-check execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"check"}),
		findingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clairmeta_findings_total",
			Help: "Total number of findings, by resolved criticality",
		}, []string{"criticality"}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "clairmeta_run_duration_seconds",
			Help: "Wall-clock duration of the full validation run",
		}),
		verdict: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "clairmeta_run_verdict",
			Help: "1 for the run's verdict, 0 otherwise, labeled by verdict value",
		}, []string{"verdict"}),
	}
}

// ObserveCheck records one check's bypass state and elapsed time.
func (r *Registry) ObserveCheck(name string, bypassed bool, seconds float64) {
	r.checksTotal.WithLabelValues(fmt.Sprint(bypassed)).Inc()
	if !bypassed {
		r.checkDuration.WithLabelValues(name).Observe(seconds)
	}
}

// ObserveFinding records one finding at its resolved criticality.
func (r *Registry) ObserveFinding(criticality string) {
	r.findingsTotal.WithLabelValues(criticality).Inc()
}

// SetRunDuration and SetVerdict record whole-run summary values, set
// once after the run completes.
func (r *Registry) SetRunDuration(seconds float64) { r.runDuration.Set(seconds) }

func (r *Registry) SetVerdict(verdict string) {
	for _, v := range []string{"OK", "WARNING", "ERROR"} {
		val := 0.0
		if v == verdict {
			val = 1.0
		}
		r.verdict.WithLabelValues(v).Set(val)
	}
}

// WriteTextfile writes the registry in the node_exporter textfile
// collector format: an atomic rename into place so a concurrently
// running node_exporter scrape never observes a half-written file.
func (r *Registry) WriteTextfile(path string) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gathering: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("metrics: creating %s: %w", tmp, err)
	}

	enc := expfmt.NewEncoder(f, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			f.Close()
			return fmt.Errorf("metrics: encoding textfile: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Push ships the registry to a Prometheus Pushgateway, for CI runs that
// have no textfile collector mounted.
func (r *Registry) Push(gatewayURL, job string) error {
	return push.New(gatewayURL, job).Gatherer(r.registry).Push()
}
