package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Tanks         []TankJSON `json:"tanks"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Config        ConfigJSON `json:"config"`
}

// TankJSON is the JSON representation of one tank's state.
type TankJSON struct {
	Name       string      `json:"name"`
	Levels     []LevelJSON `json:"levels"`
	Percentage int         `json:"percentage"`
	Reports    int         `json:"reports"`
}

// LevelJSON is one labeled sensor state.
type LevelJSON struct {
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	Chip        string `json:"chip"`
	ActiveHigh  bool   `json:"active_high"`
}

func buildInner(snap Snapshot) StatusInner {
	tanks := make([]TankJSON, 0, len(snap.Tanks))
	for _, ts := range snap.Tanks {
		tj := TankJSON{
			Name:       ts.Name,
			Percentage: ts.Percentage,
			Reports:    ts.Reports,
			Levels:     make([]LevelJSON, 0, len(ts.Levels)),
		}
		for _, r := range ts.Levels {
			tj.Levels = append(tj.Levels, LevelJSON{Label: r.Label, Active: r.Active})
		}
		tanks = append(tanks, tj)
	}

	return StatusInner{
		Tanks:         tanks,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			Chip:        snap.Config.Chip,
			ActiveHigh:  snap.Config.ActiveHigh,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
