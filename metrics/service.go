package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	SourceSingleUpdate = "single"
	SourceAutoSave     = "auto_save"
	SourceCreate       = "create"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

type Service struct {
	MatchUpdates      *prometheus.CounterVec
	Recomputes        prometheus.Counter
	RecomputeDuration prometheus.Histogram
	AutoSaveSkipped   prometheus.Counter
}

// NewService creates and registers the Prometheus collectors.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_match_updates_total",
			Help: "The total number of group match score writes.",
		}, []string{"source"}),
		Recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_standings_recomputes_total",
			Help: "The total number of group standings recomputes.",
		}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "league_standings_recompute_duration_seconds",
			Help:    "Duration of a single group standings recompute, including the replace.",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		AutoSaveSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_autosave_skipped_entries_total",
			Help: "Auto-save entries that did not match any stored group match.",
		}),
	}

	reg.MustRegister(
		s.MatchUpdates,
		s.Recomputes,
		s.RecomputeDuration,
		s.AutoSaveSkipped,
	)

	return s
}

func (s *Service) IncMatchUpdates(source string) {
	s.MatchUpdates.WithLabelValues(source).Inc()
}

func (s *Service) IncStandingsRecomputes() {
	s.Recomputes.Inc()
}

func (s *Service) ObserveRecomputeDuration(seconds float64) {
	s.RecomputeDuration.Observe(seconds)
}

func (s *Service) AddAutoSaveSkipped(n int) {
	if n <= 0 {
		return
	}
	s.AutoSaveSkipped.Add(float64(n))
}
