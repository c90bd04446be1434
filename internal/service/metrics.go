package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts domain events. A nil *Metrics records nothing.
type Metrics struct {
	messages  *prometheus.CounterVec
	decisions *prometheus.CounterVec
	released  prometheus.Counter
	profiles  prometheus.Counter
}

// NewMetrics registers the domain counters on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Messages accepted for sending, by initial status.",
		}, []string{"status"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_message_decisions_total",
			Help: "Parental decisions on pending messages.",
		}, []string{"decision"}),
		released: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_messages_released_total",
			Help: "Held messages delivered after quiet hours or a timeout ended.",
		}),
		profiles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "web_profiles_created_total",
			Help: "Profiles created, including the first one at registration.",
		}),
	}
	for _, c := range []prometheus.Collector{m.messages, m.decisions, m.released, m.profiles} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) messageSent(status string) {
	if m != nil {
		m.messages.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) decision(decision string) {
	if m != nil {
		m.decisions.WithLabelValues(decision).Inc()
	}
}

func (m *Metrics) releasedN(n int) {
	if m != nil && n > 0 {
		m.released.Add(float64(n))
	}
}

func (m *Metrics) profileCreated() {
	if m != nil {
		m.profiles.Inc()
	}
}
