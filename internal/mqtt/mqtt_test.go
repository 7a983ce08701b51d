package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/tank-monitor/internal/logic"
)

func sampleSnapshot() logic.Snapshot {
	return logic.Snapshot{
		Tank: "fresh",
		Levels: logic.Levels{
			{Label: "empty", Active: true},
			{Label: "one_third", Active: true},
			{Label: "two_thirds", Active: false},
			{Label: "full", Active: false},
		},
		Percentage: 33,
		Time:       time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestLevelTopic(t *testing.T) {
	if got := LevelTopic("fresh"); got != "rv/tanks/fresh/levels" {
		t.Errorf("unexpected topic: %s", got)
	}
	if got := LevelTopic("grey"); got != "rv/tanks/grey/levels" {
		t.Errorf("unexpected topic: %s", got)
	}
}

func TestFormatPayload(t *testing.T) {
	data, err := FormatPayload(sampleSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Tank.Name != "fresh" {
		t.Errorf("expected name fresh, got %q", parsed.Tank.Name)
	}
	if parsed.Tank.Percentage != 33 {
		t.Errorf("expected percentage 33, got %d", parsed.Tank.Percentage)
	}
	if parsed.Tank.Timestamp != "2026-03-15T10:30:00Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Tank.Timestamp)
	}

	wantLabels := []string{"empty", "one_third", "two_thirds", "full"}
	if len(parsed.Tank.Levels) != len(wantLabels) {
		t.Fatalf("expected %d levels, got %d", len(wantLabels), len(parsed.Tank.Levels))
	}
	for i, w := range wantLabels {
		if parsed.Tank.Levels[i].Label != w {
			t.Errorf("level %d: expected label %q, got %q", i, w, parsed.Tank.Levels[i].Label)
		}
	}
	if !parsed.Tank.Levels[0].Active || parsed.Tank.Levels[2].Active {
		t.Error("level states not preserved")
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.System.Event != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN, got %q", parsed.System.Event)
	}
	if parsed.System.Reason != "SIGTERM" {
		t.Errorf("expected SIGTERM, got %q", parsed.System.Reason)
	}
	if parsed.System.Timestamp != "2026-03-15T10:30:00Z" {
		t.Errorf("unexpected timestamp: %s", parsed.System.Timestamp)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	data, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := raw["system"]["reason"]; ok {
		t.Error("empty reason should be omitted")
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"HEARTBEAT"}}`)
	data, err := FormatSystemPayload(SystemEvent{RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", data)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	snap := sampleSnapshot()
	if err := f.Publish(snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(f.Snapshots))
	}
	if f.Snapshots[0].Tank != "fresh" {
		t.Errorf("expected fresh, got %q", f.Snapshots[0].Tank)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")

	if err := f.Publish(sampleSnapshot()); err == nil {
		t.Error("expected error to be returned")
	}
	if len(f.Snapshots) != 0 {
		t.Error("failed publish should not be recorded")
	}
}

func TestFakePublisherSystem(t *testing.T) {
	f := NewFakePublisher()

	if err := f.PublishSystem(SystemEvent{Event: "STARTUP", Timestamp: time.Now()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.SystemEvents))
	}
	if f.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("expected STARTUP, got %q", f.SystemEvents[0].Event)
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(sampleSnapshot())
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Close()
	f.Connected = true

	f.Reset()

	if len(f.Snapshots) != 0 || len(f.SystemEvents) != 0 || f.Closed || f.Connected {
		t.Error("Reset did not clear state")
	}
}
