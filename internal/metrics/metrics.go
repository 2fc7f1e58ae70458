package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecoshop/internal/model"
)

const namespace = "ecoshop"

// Metrics is nil-safe: every method on a nil *Metrics is a no-op.
type Metrics struct {
	ordersProcessed *prometheus.CounterVec
	pointsAwarded   prometheus.Counter
	co2Saved        prometheus.Counter
	co2Offset       prometheus.Counter
	pointsDonated   prometheus.Counter
	eventsPublished *prometheus.CounterVec
	outboxDepth     prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ordersProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_processed_total",
			Help:      "Processed checkout orders by delivery option and whether a user was credited.",
		}, []string{"delivery", "credited"}),
		pointsAwarded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eco_points_awarded_total",
			Help:      "EcoPoints computed for processed orders.",
		}),
		co2Saved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "co2_saved_kg_total",
			Help:      "CO2 savings attributed to processed orders, in kg.",
		}),
		co2Offset: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "co2_offset_kg_total",
			Help:      "Carbon offsets purchased with orders, in kg.",
		}),
		pointsDonated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eco_points_donated_total",
			Help:      "EcoPoints donated from wallets.",
		}),
		eventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Outbox events handed to the publisher, by result.",
		}, []string{"result"}),
		outboxDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outbox_depth",
			Help:      "Events waiting in the outbox.",
		}),
	}
}

func (m *Metrics) ObserveOrder(delivery model.DeliveryOption, r model.Receipt) {
	if m == nil {
		return
	}
	m.ordersProcessed.WithLabelValues(string(delivery), strconv.FormatBool(r.Credited)).Inc()
	// counters panic on negative deltas; malformed orders can produce them
	addNonNegative(m.pointsAwarded, float64(r.Points))
	addNonNegative(m.co2Saved, r.CO2Saved)
	addNonNegative(m.co2Offset, r.CO2Offset)
}

func (m *Metrics) ObserveDonation(points int) {
	if m == nil {
		return
	}
	addNonNegative(m.pointsDonated, float64(points))
}

func (m *Metrics) ObservePublish(n int, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.eventsPublished.WithLabelValues(result).Add(float64(n))
}

func (m *Metrics) SetOutboxDepth(n int) {
	if m == nil {
		return
	}
	m.outboxDepth.Set(float64(n))
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func addNonNegative(c prometheus.Counter, v float64) {
	if v > 0 {
		c.Add(v)
	}
}
