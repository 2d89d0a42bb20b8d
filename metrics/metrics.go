package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Metric names used across the service.
const (
	HTTPRequests       = "greengain_http_requests_total"
	RateLimited        = "greengain_rate_limited_total"
	CreditCalculations = "greengain_credit_calculations_total"
	ClampedInputs      = "greengain_clamped_inputs_total"
	EstimateStoreError = "greengain_estimate_store_errors_total"
	RulesReloads       = "greengain_rules_reloads_total"
	RoadmapAnalyses    = "greengain_roadmap_analyses_total"
)

// Registry holds the service's counter vectors on a private Prometheus
// registry and looks them up by name.
type Registry struct {
	reg *prometheus.Registry

	mu       sync.RWMutex
	counters map[string]*prometheus.CounterVec
}

func New() *Registry {
	return &Registry{
		reg:      prometheus.NewRegistry(),
		counters: make(map[string]*prometheus.CounterVec),
	}
}

// NewDefault returns a registry with the Go runtime and process collectors
// and every service counter registered.
func NewDefault() *Registry {
	r := New()
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	must(r.Register(HTTPRequests, "HTTP requests by route and status code.", "route", "code"))
	must(r.Register(RateLimited, "Requests rejected by the rate limiter, by route.", "route"))
	must(r.Register(CreditCalculations, "Credit computations by caller.", "source"))
	must(r.Register(ClampedInputs, "Inputs clamped to zero, by field.", "field"))
	must(r.Register(EstimateStoreError, "Failures reading or writing session estimates.", "op"))
	must(r.Register(RulesReloads, "Rule table reload attempts by result.", "result"))
	must(r.Register(RoadmapAnalyses, "Roadmap analyses by result.", "result"))
	return r
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Register declares a counter vector. Registering a name twice keeps the
// first definition.
func (r *Registry) Register(name, help string, labelNames ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.counters[name]; ok {
		return nil
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labelNames)
	if err := r.reg.Register(vec); err != nil {
		return err
	}
	r.counters[name] = vec
	return nil
}

func (r *Registry) counter(name string, labelValues []string) prometheus.Counter {
	r.mu.RLock()
	vec, ok := r.counters[name]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	c, err := vec.GetMetricWithLabelValues(labelValues...)
	if err != nil {
		return nil
	}
	return c
}

// Inc adds one to the counter identified by name and label values.
func (r *Registry) Inc(name string, labelValues ...string) {
	r.Add(name, 1, labelValues...)
}

// Add adds v to the counter. Unknown names, label arity mismatches and
// negative deltas are ignored so instrumentation never breaks a request.
func (r *Registry) Add(name string, v float64, labelValues ...string) {
	if r == nil || v < 0 {
		return
	}
	if c := r.counter(name, labelValues); c != nil {
		c.Add(v)
	}
}

// Value returns the current value of one counter.
func (r *Registry) Value(name string, labelValues ...string) float64 {
	c := r.counter(name, labelValues)
	if c == nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// Gather snapshots every registered collector.
func (r *Registry) Gather() ([]*dto.MetricFamily, error) {
	return r.reg.Gather()
}

// Handler serves the registry in the format negotiated from Accept.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
