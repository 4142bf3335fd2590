package metrics

import (
	"math"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	probes         *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	oracleRequests *prometheus.CounterVec
	evaluations    *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	poolAPR        *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		probes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmyield_probes_total",
				Help: "Contract shape probes by kind and outcome",
			},
			[]string{"kind", "ok"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmyield_cache_lookups_total",
				Help: "Cache lookups by cache name and outcome",
			},
			[]string{"cache", "hit"},
		),
		oracleRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmyield_oracle_requests_total",
				Help: "Remote price oracle requests by outcome",
			},
			[]string{"ok"},
		),
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmyield_evaluations_total",
				Help: "Farm evaluations by result",
			},
			[]string{"result"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmyield_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		poolAPR: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "farmyield_pool_yearly_apr_percent",
				Help: "Last computed yearly APR per pool",
			},
			[]string{"pool"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "farmyield_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordProbe(kind string, ok bool) {
	r.probes.WithLabelValues(kind, strconv.FormatBool(ok)).Inc()
}

func (r *Recorder) RecordCacheLookup(cache string, hit bool) {
	r.cacheLookups.WithLabelValues(cache, strconv.FormatBool(hit)).Inc()
}

func (r *Recorder) RecordOracleRequest(ok bool) {
	r.oracleRequests.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

func (r *Recorder) RecordEvaluation(result string) {
	r.evaluations.WithLabelValues(result).Inc()
}

// RecordPoolAPR sets the pool gauge; non-finite values are ignored.
func (r *Recorder) RecordPoolAPR(pool string, yearlyAPR float64) {
	if math.IsNaN(yearlyAPR) || math.IsInf(yearlyAPR, 0) {
		return
	}
	r.poolAPR.WithLabelValues(pool).Set(yearlyAPR)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordProbe(string, bool) {}
func (Nop) RecordCacheLookup(string, bool) {}
func (Nop) RecordOracleRequest(bool) {}
func (Nop) RecordEvaluation(string) {}
func (Nop) RecordPoolAPR(string, float64) {}
func (Nop) RecordError(string) {}
func (Nop) RecordLatency(string, float64) {}
