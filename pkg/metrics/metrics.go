package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Scheduling metrics
	CommandsIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrubd_commands_issued_total",
			Help: "Total number of scrub commands issued by kind",
		},
		[]string{"kind"},
	)

	CommandFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrubd_command_failures_total",
			Help: "Total number of scrub commands that failed by kind",
		},
		[]string{"kind"},
	)

	AdmissionWaitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scrubd_admission_waits_total",
			Help: "Total number of poll sleeps while the cluster was above the unhealthy ceiling",
		},
	)

	StampParseFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scrubd_stamp_parse_failures_total",
			Help: "Total number of PGs skipped because their scrub stamp could not be parsed",
		},
	)

	RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrubd_run_duration_seconds",
			Help:    "Duration of one full scheduling pass in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"kind"},
	)

	// Cluster state metrics
	UnhealthyPGs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scrubd_unhealthy_pgs",
			Help: "Number of PGs not in active+clean at the last snapshot",
		},
	)

	OverduePGs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scrubd_overdue_pgs",
			Help: "Number of PGs overdue for maintenance by kind",
		},
		[]string{"kind"},
	)

	ErrorPGs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scrubd_error_pgs",
			Help: "Number of PGs with at least one recorded error by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(CommandsIssuedTotal)
	prometheus.MustRegister(CommandFailuresTotal)
	prometheus.MustRegister(AdmissionWaitsTotal)
	prometheus.MustRegister(StampParseFailuresTotal)
	prometheus.MustRegister(RunDuration)
	prometheus.MustRegister(UnhealthyPGs)
	prometheus.MustRegister(OverduePGs)
	prometheus.MustRegister(ErrorPGs)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
