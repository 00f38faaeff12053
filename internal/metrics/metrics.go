package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors, registered once at startup
// and injected into the components that record them.
type Metrics struct {
	BetsPlaced   prometheus.Counter
	BetsRejected *prometheus.CounterVec
	WSBroadcasts *prometheus.CounterVec
	WSClients    prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BetsPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "bets_placed_total",
			Help: "Successfully placed bets.",
		}),
		BetsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bets_rejected_total",
			Help: "Bet placements rejected, by reason.",
		}, []string{"reason"}),
		WSBroadcasts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ws_broadcasts_total",
			Help: "Live updates delivered to WebSocket rooms, by type.",
		}, []string{"type"}),
		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ws_clients_connected",
			Help: "Currently connected WebSocket clients.",
		}),
	}
}
