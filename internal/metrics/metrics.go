package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the bot
type Metrics struct {
	registry *prometheus.Registry

	// Game metrics
	GamesStarted  prometheus.Counter
	GamesFinished *prometheus.CounterVec
	GamesActive   prometheus.Gauge
	Guesses       *prometheus.CounterVec

	// Command metrics
	Commands *prometheus.CounterVec

	// Transport metrics
	MessagesReceived *prometheus.CounterVec
	SendErrors       *prometheus.CounterVec
}

// New creates and registers all metrics
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		GamesStarted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wordle_games_started_total",
				Help: "Total number of games started",
			},
		),
		GamesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordle_games_finished_total",
				Help: "Total number of games finished, by outcome",
			},
			[]string{"outcome"},
		),
		GamesActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wordle_games_active",
				Help: "Number of games currently running",
			},
		),
		Guesses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordle_guesses_total",
				Help: "Total number of guesses, by result",
			},
			[]string{"result"},
		),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordle_commands_total",
				Help: "Total number of commands handled",
			},
			[]string{"command"},
		),
		MessagesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordle_messages_received_total",
				Help: "Total number of chat messages received",
			},
			[]string{"transport"},
		),
		SendErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordle_send_errors_total",
				Help: "Total number of replies that failed to send",
			},
			[]string{"transport"},
		),
	}

	registry.MustRegister(
		m.GamesStarted,
		m.GamesFinished,
		m.GamesActive,
		m.Guesses,
		m.Commands,
		m.MessagesReceived,
		m.SendErrors,
		collectors.NewGoCollector(),
	)

	return m
}

// Handler returns HTTP handler for metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// GameStarted records a new game.
func (m *Metrics) GameStarted() {
	if m == nil {
		return
	}
	m.GamesStarted.Inc()
	m.GamesActive.Inc()
}

// GameFinished records a game leaving the registry with outcome.
func (m *Metrics) GameFinished(outcome string) {
	if m == nil {
		return
	}
	m.GamesFinished.WithLabelValues(outcome).Inc()
	m.GamesActive.Dec()
}

// Guess records a guess attempt; result is "accepted", "invalid_length" or "unknown_word".
func (m *Metrics) Guess(result string) {
	if m == nil {
		return
	}
	m.Guesses.WithLabelValues(result).Inc()
}

// Command records a dispatched command.
func (m *Metrics) Command(name string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(name).Inc()
}

// Received records an inbound chat message on transport.
func (m *Metrics) Received(transport string) {
	if m == nil {
		return
	}
	m.MessagesReceived.WithLabelValues(transport).Inc()
}

// SendFailed records a reply that could not be delivered on transport.
func (m *Metrics) SendFailed(transport string) {
	if m == nil {
		return
	}
	m.SendErrors.WithLabelValues(transport).Inc()
}
