// Package status provides a thread-safe status tracker for the tank-monitor
// daemon. It is read by HTTP handlers while the polling loop writes to it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/tank-monitor/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Chip        string
	ActiveHigh  bool
}

// TankStatus is the last known reading for one tank.
type TankStatus struct {
	Name       string
	Levels     logic.Levels
	Percentage int
	Reports    int // change reports published for this tank
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type with copied slices — safe to use after the lock is
// released.
type Snapshot struct {
	Tanks         []TankStatus
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu            sync.RWMutex
	tanks         []TankStatus
	index         map[string]int
	startTime     time.Time
	mqttConnected bool
	config        Config
}

// NewTracker creates a Tracker with the given start time and config. Tank
// names fix the display order; all tanks appear before their first reading.
func NewTracker(startTime time.Time, cfg Config, tankNames []string) *Tracker {
	t := &Tracker{
		startTime: startTime,
		config:    cfg,
		index:     make(map[string]int, len(tankNames)),
	}
	for i, name := range tankNames {
		t.tanks = append(t.tanks, TankStatus{Name: name})
		t.index[name] = i
	}
	return t
}

// UpdateTank records the latest levels and percentage for a tank.
// Called from the polling loop on every tick. Unknown names are ignored.
func (t *Tracker) UpdateTank(name string, levels logic.Levels, percentage int) {
	t.mu.Lock()
	if i, ok := t.index[name]; ok {
		t.tanks[i].Levels = levels
		t.tanks[i].Percentage = percentage
	}
	t.mu.Unlock()
}

// IncReports counts one published change report for a tank.
func (t *Tracker) IncReports(name string) {
	t.mu.Lock()
	if i, ok := t.index[name]; ok {
		t.tanks[i].Reports++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.mqttConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := Snapshot{
		Tanks:         append([]TankStatus(nil), t.tanks...),
		StartTime:     t.startTime,
		MQTTConnected: t.mqttConnected,
		Config:        t.config,
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
