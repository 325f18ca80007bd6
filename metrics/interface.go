package metrics

// Metrics is what the scoring services report to. It keeps them free of
// Prometheus types.
type Metrics interface {
	IncMatchUpdates(source string)
	IncStandingsRecomputes()
	ObserveRecomputeDuration(seconds float64)
	AddAutoSaveSkipped(n int)
}
