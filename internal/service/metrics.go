package service

import (
	"context"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	EscrowEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rps_escrow_events_total",
			Help: "Escrow engine events by type",
		},
		[]string{"type"},
	)
	EscrowCustody = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rps_escrow_custody_units",
			Help: "Token units deposited and not yet withdrawn since process start",
		},
	)
	EscrowRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rps_escrow_rejections_total",
			Help: "Escrow operations rejected, by reason",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(EscrowEvents)
	prometheus.MustRegister(EscrowCustody)
	prometheus.MustRegister(EscrowRejections)
}

// Metrics records engine events in prometheus.
type Metrics struct{}

func (Metrics) Notify(_ context.Context, ev domain.Event) {
	EscrowEvents.WithLabelValues(string(ev.Type)).Inc()
	switch ev.Type {
	case domain.EventDeposited:
		EscrowCustody.Add(float64(ev.Amount))
	case domain.EventWithdrawn:
		EscrowCustody.Sub(float64(ev.Amount))
	}
}
