package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/tank-monitor/internal/logic"
)

func testConfig() Config {
	return Config{
		PollMs:      1000,
		DebounceMs:  100,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":8080",
		Chip:        "gpiochip0",
		ActiveHigh:  true,
	}
}

func testLevels(states ...bool) logic.Levels {
	labels := []string{"empty", "one_third", "two_thirds", "full"}
	levels := make(logic.Levels, 0, len(states))
	for i, s := range states {
		levels = append(levels, logic.LevelReading{Label: labels[i], Active: s})
	}
	return levels
}

func TestNewTrackerPreallocatesTanks(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig(), []string{"fresh", "grey"})

	snap := tr.Snapshot()
	if len(snap.Tanks) != 2 {
		t.Fatalf("expected 2 tanks, got %d", len(snap.Tanks))
	}
	if snap.Tanks[0].Name != "fresh" || snap.Tanks[1].Name != "grey" {
		t.Errorf("tank order not preserved: %+v", snap.Tanks)
	}
	if snap.Tanks[0].Levels != nil {
		t.Error("expected no levels before first update")
	}
}

func TestUpdateTank(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig(), []string{"fresh", "grey"})

	tr.UpdateTank("grey", testLevels(true, true, false, false), 33)

	snap := tr.Snapshot()
	if snap.Tanks[1].Percentage != 33 {
		t.Errorf("expected 33, got %d", snap.Tanks[1].Percentage)
	}
	if len(snap.Tanks[1].Levels) != 4 {
		t.Fatalf("expected 4 levels, got %d", len(snap.Tanks[1].Levels))
	}
	if snap.Tanks[0].Levels != nil {
		t.Error("other tank should be untouched")
	}
}

func TestUpdateUnknownTankIgnored(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig(), []string{"fresh"})

	tr.UpdateTank("black", testLevels(true, false, false, false), 0)
	tr.IncReports("black")

	snap := tr.Snapshot()
	if len(snap.Tanks) != 1 || snap.Tanks[0].Levels != nil {
		t.Error("unknown tank must not change state")
	}
}

func TestIncReports(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig(), []string{"fresh"})

	tr.IncReports("fresh")
	tr.IncReports("fresh")

	snap := tr.Snapshot()
	if snap.Tanks[0].Reports != 2 {
		t.Errorf("expected 2 reports, got %d", snap.Tanks[0].Reports)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig(), []string{"fresh"})

	if tr.Snapshot().MQTTConnected {
		t.Error("should start disconnected")
	}
	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("should be connected after SetMQTTConnected(true)")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig(), []string{"fresh"})
	tr.UpdateTank("fresh", testLevels(true, false, false, false), 0)

	snap := tr.Snapshot()
	snap.Tanks[0].Percentage = 99

	if tr.Snapshot().Tanks[0].Percentage == 99 {
		t.Error("mutating a snapshot must not affect the tracker")
	}
}

func TestUptime(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	tr := NewTracker(start, testConfig(), nil)

	up := tr.Snapshot().Uptime()
	if up < 89*time.Second || up > 92*time.Second {
		t.Errorf("unexpected uptime: %v", up)
	}
}

func TestFormatJSON(t *testing.T) {
	tr := NewTracker(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), testConfig(), []string{"fresh", "grey"})
	tr.UpdateTank("fresh", testLevels(true, true, false, false), 33)
	tr.SetMQTTConnected(true)

	data := FormatJSON(tr.Snapshot())

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "" {
		t.Error("web JSON should carry no event")
	}
	if len(parsed.Status.Tanks) != 2 {
		t.Fatalf("expected 2 tanks, got %d", len(parsed.Status.Tanks))
	}
	if parsed.Status.Tanks[0].Percentage != 33 {
		t.Errorf("expected 33, got %d", parsed.Status.Tanks[0].Percentage)
	}
	if parsed.Status.Tanks[0].Levels[1].Label != "one_third" {
		t.Errorf("level order lost: %+v", parsed.Status.Tanks[0].Levels)
	}
	if !parsed.Status.MQTT.Connected {
		t.Error("expected mqtt connected")
	}
	if parsed.Status.Config.PollMs != 1000 {
		t.Errorf("expected poll_ms 1000, got %d", parsed.Status.Config.PollMs)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig(), []string{"fresh"})

	data := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN, got %q", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("expected SIGTERM, got %q", parsed.Status.Reason)
	}
}
