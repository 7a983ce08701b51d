// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/tank-monitor/internal/logic"
)

// TopicPrefix is the root of all tank monitor topics.
const TopicPrefix = "rv/tanks"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "rv/tanks/system"

// LevelTopic returns the topic carrying one tank's level snapshots.
func LevelTopic(tank string) string {
	return fmt.Sprintf("%s/%s/levels", TopicPrefix, tank)
}

// Publisher publishes tank snapshots to MQTT.
type Publisher interface {
	// Publish sends a tank level snapshot to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(snap logic.Snapshot) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload is the MQTT message payload for a tank snapshot.
type Payload struct {
	Tank TankPayload `json:"tank"`
}

// TankPayload contains one tank's levels and derived percentage. Levels is
// an array, not an object, to preserve the ascending threshold order.
type TankPayload struct {
	Timestamp  string         `json:"timestamp"`
	Name       string         `json:"name"`
	Levels     []LevelPayload `json:"levels"`
	Percentage int            `json:"percentage"`
}

// LevelPayload is one labeled sensor state.
type LevelPayload struct {
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// FormatPayload creates the JSON payload for a tank snapshot.
func FormatPayload(snap logic.Snapshot) ([]byte, error) {
	levels := make([]LevelPayload, 0, len(snap.Levels))
	for _, r := range snap.Levels {
		levels = append(levels, LevelPayload{Label: r.Label, Active: r.Active})
	}

	payload := Payload{
		Tank: TankPayload{
			Timestamp:  snap.Time.UTC().Format(time.RFC3339),
			Name:       snap.Tank,
			Levels:     levels,
			Percentage: snap.Percentage,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message payload for system events that carry no
// full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status
// snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
