package redlock

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instrumentation a Coordinator reports
// through when attached via WithMetrics or WithPrometheusRegisterer.
// Following the teacher's v1/metrics package shape: package-level-style
// counters bundled into a struct and registered together.
type Metrics struct {
	AttemptsTotal       prometheus.Counter
	GrantsTotal         prometheus.Counter
	QuorumFailuresTotal prometheus.Counter
	ReleasesTotal       prometheus.Counter
	ScriptReloadsTotal  prometheus.Counter
}

// NewMetrics builds a fresh, unregistered Metrics set.
func NewMetrics() *Metrics {
	return &Metrics{
		AttemptsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redlock_attempts_total",
			Help: "Total number of acquisition attempts across all resources.",
		}),
		GrantsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redlock_grants_total",
			Help: "Total number of attempts that reached quorum with non-negative validity.",
		}),
		QuorumFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redlock_quorum_failures_total",
			Help: "Total number of attempts that failed to reach quorum or validity.",
		}),
		ReleasesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redlock_releases_total",
			Help: "Total number of unlock fan-outs issued (explicit or compensating).",
		}),
		ScriptReloadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redlock_script_reloads_total",
			Help: "Total number of NOSCRIPT-triggered script cache reloads.",
		}),
	}
}

// Register registers every counter in m on reg.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.AttemptsTotal, m.GrantsTotal, m.QuorumFailuresTotal, m.ReleasesTotal, m.ScriptReloadsTotal)
}
