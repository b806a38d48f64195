// Package metrics exposes Prometheus instrumentation for generation runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caravanpress/studio/pkg/studiogen"
	"github.com/caravanpress/studio/pkg/studiogen/locale"
)

var (
	RunsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "studiogen_runs_started_total",
			Help: "Total number of generation runs started",
		},
	)
	RunsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiogen_runs_finished_total",
			Help: "Generation runs finished by terminal phase",
		},
		[]string{"phase"}, // phase: complete|error
	)
	RunDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "studiogen_run_duration_seconds",
			Help:    "Histogram of generation run durations in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s..512s
		},
	)
	LanguagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiogen_languages_processed_total",
			Help: "Per-language generation outcomes",
		},
		[]string{"language", "result"}, // result: success|failure
	)
)

func init() {
	prometheus.MustRegister(
		RunsStarted,
		RunsFinished,
		RunDurationSeconds,
		LanguagesProcessed,
	)
}

// Handler serves the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Recorder implements studiogen.MetricsRecorder on the package counters.
type Recorder struct{}

var _ studiogen.MetricsRecorder = Recorder{}

func (Recorder) RunStarted() {
	RunsStarted.Inc()
}

func (Recorder) RunFinished(phase studiogen.Phase, d time.Duration) {
	RunsFinished.WithLabelValues(string(phase)).Inc()
	RunDurationSeconds.Observe(d.Seconds())
}

func (Recorder) LanguageProcessed(lang locale.Code, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	LanguagesProcessed.WithLabelValues(string(lang), result).Inc()
}
