// Package logic contains pure business logic for tank level monitoring.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via a Clock function, and raw signals arrive
// through the Source capability.
package logic

import (
	"errors"
	"time"
)

// Source reads one raw digital input. Implementations return the
// instantaneous, unfiltered signal value; debouncing happens here, not in
// the source. Read failures are a collaborator concern — a source must
// always return a value.
type Source interface {
	RawState() bool
}

// Clock returns the current time. time.Time carries a monotonic reading,
// so subtracting two Clock values is safe across wall-clock adjustments.
type Clock func() time.Time

// DefaultLabels name the four standard sensor positions, in ascending
// threshold order.
var DefaultLabels = []string{"empty", "one_third", "two_thirds", "full"}

// DefaultDebounce is how long a raw signal must hold steady before its
// value is trusted.
const DefaultDebounce = 100 * time.Millisecond

// Configuration errors, detected at construction time. There is no runtime
// error recovery in this package.
var (
	ErrTooFewSensors = errors.New("tank needs at least two sensors")
	ErrLabelMismatch = errors.New("labels and sensors must have the same length")
)

// LevelReading is one labeled sensor state.
type LevelReading struct {
	Label  string
	Active bool
}

// Levels is an ordered set of sensor readings for one tank. Order follows
// the configured label order (ascending thresholds), which the percentage
// derivation depends on.
type Levels []LevelReading

// Get returns the state for a label and whether the label is present.
func (l Levels) Get(label string) (bool, bool) {
	for _, r := range l {
		if r.Label == label {
			return r.Active, true
		}
	}
	return false, false
}

// Snapshot is a point-in-time view of one tank.
type Snapshot struct {
	Tank       string
	Levels     Levels
	Percentage int
	Time       time.Time
}
