package metrics

import "sync"

// MockMetrics records calls instead of exporting them.
type MockMetrics struct {
	mu sync.Mutex

	MatchUpdates       map[string]int
	Recomputes         int
	RecomputeDurations []float64
	AutoSaveSkipped    int
}

var _ Metrics = (*MockMetrics)(nil)

func NewMock() *MockMetrics {
	return &MockMetrics{MatchUpdates: make(map[string]int)}
}

func (m *MockMetrics) IncMatchUpdates(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchUpdates[source]++
}

func (m *MockMetrics) IncStandingsRecomputes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Recomputes++
}

func (m *MockMetrics) ObserveRecomputeDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecomputeDurations = append(m.RecomputeDurations, seconds)
}

func (m *MockMetrics) AddAutoSaveSkipped(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AutoSaveSkipped += n
}
