// Package metrics exposes Prometheus collectors for the tank-monitor daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sweeney/tank-monitor/internal/logic"
)

// Metrics holds the daemon's Prometheus collectors.
type Metrics struct {
	fillPercent   *prometheus.GaugeVec
	sensorActive  *prometheus.GaugeVec
	reportsTotal  *prometheus.CounterVec
	mqttConnected prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fillPercent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tank",
			Name:      "fill_percent",
			Help:      "Coarse fill level derived from the highest active sensor",
		}, []string{"tank"}),
		sensorActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tank",
			Name:      "sensor_active",
			Help:      "Debounced state of an individual level sensor",
		}, []string{"tank", "label"}),
		reportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tank",
			Name:      "reports_total",
			Help:      "Level change reports published per tank",
		}, []string{"tank"}),
		mqttConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tank",
			Name:      "mqtt_connected",
			Help:      "Whether the MQTT broker connection is up",
		}),
	}

	reg.MustRegister(m.fillPercent, m.sensorActive, m.reportsTotal, m.mqttConnected)
	return m
}

// ObserveLevels records one tank's current levels and fill percentage.
func (m *Metrics) ObserveLevels(tank string, levels logic.Levels, percentage int) {
	m.fillPercent.WithLabelValues(tank).Set(float64(percentage))
	for _, r := range levels {
		v := 0.0
		if r.Active {
			v = 1
		}
		m.sensorActive.WithLabelValues(tank, r.Label).Set(v)
	}
}

// CountReport counts one published change report.
func (m *Metrics) CountReport(tank string) {
	m.reportsTotal.WithLabelValues(tank).Inc()
}

// SetMQTTConnected mirrors the broker connection state.
func (m *Metrics) SetMQTTConnected(connected bool) {
	if connected {
		m.mqttConnected.Set(1)
	} else {
		m.mqttConnected.Set(0)
	}
}
