package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sweeney/tank-monitor/internal/logic"
)

func TestObserveLevels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveLevels("fresh", logic.Levels{
		{Label: "empty", Active: true},
		{Label: "full", Active: false},
	}, 33)

	if got := testutil.ToFloat64(m.fillPercent.WithLabelValues("fresh")); got != 33 {
		t.Errorf("fill_percent = %v, want 33", got)
	}
	if got := testutil.ToFloat64(m.sensorActive.WithLabelValues("fresh", "empty")); got != 1 {
		t.Errorf("sensor_active{empty} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.sensorActive.WithLabelValues("fresh", "full")); got != 0 {
		t.Errorf("sensor_active{full} = %v, want 0", got)
	}
}

func TestCountReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CountReport("grey")
	m.CountReport("grey")

	if got := testutil.ToFloat64(m.reportsTotal.WithLabelValues("grey")); got != 2 {
		t.Errorf("reports_total = %v, want 2", got)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SetMQTTConnected(true)
	if got := testutil.ToFloat64(m.mqttConnected); got != 1 {
		t.Errorf("mqtt_connected = %v, want 1", got)
	}
	m.SetMQTTConnected(false)
	if got := testutil.ToFloat64(m.mqttConnected); got != 0 {
		t.Errorf("mqtt_connected = %v, want 0", got)
	}
}

func TestCollectorsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveLevels("fresh", logic.Levels{{Label: "empty", Active: true}}, 0)

	expected := strings.NewReader(`
# HELP tank_fill_percent Coarse fill level derived from the highest active sensor
# TYPE tank_fill_percent gauge
tank_fill_percent{tank="fresh"} 0
`)
	if err := testutil.GatherAndCompare(reg, expected, "tank_fill_percent"); err != nil {
		t.Errorf("unexpected gather result: %v", err)
	}
}
