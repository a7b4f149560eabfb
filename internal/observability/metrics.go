package observability

import "sync"

// Metrics provides basic in-memory counters for the triage pipeline.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{counters: make(map[string]int64)}
}

// RecordCycle counts one ingestion cycle.
func (m *Metrics) RecordCycle() {
	m.inc("poll_cycles")
}

// RecordFallback counts a classification served by the keyword ladder.
func (m *Metrics) RecordFallback() {
	m.inc("classifier_fallbacks")
}

// RecordTicketCreated counts a materialized ticket.
func (m *Metrics) RecordTicketCreated() {
	m.inc("tickets_created")
}

// RecordNotification counts a notification delivery attempt by outcome.
func (m *Metrics) RecordNotification(sent bool) {
	if sent {
		m.inc("notifications_sent")
		return
	}
	m.inc("notifications_failed")
}

// RecordError increments error counters by code.
func (m *Metrics) RecordError(code string) {
	m.inc("errors|" + code)
}

// Counters returns a copy of the current counter values.
func (m *Metrics) Counters() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}

func (m *Metrics) inc(key string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
}
