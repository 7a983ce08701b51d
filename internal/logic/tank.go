package logic

import (
	"fmt"
	"time"
)

// TankConfig carries the resolved per-tank settings. The caller owns the
// raw configuration surface (files, flags); this package only sees final
// values.
type TankConfig struct {
	// Name identifies the tank in reports.
	Name string
	// Labels name the sensor positions in ascending threshold order.
	// When nil, DefaultLabels is used and exactly four sources are expected.
	Labels []string
	// ActiveHigh selects which raw value means "sensor triggered".
	ActiveHigh bool
	// Debounce is how long a raw signal must hold before it is trusted.
	// Zero means DefaultDebounce.
	Debounce time.Duration
}

// Tank tracks a single tank using an ordered set of level sensors. It owns
// one DebouncedInput per sensor and remembers the last reported levels so
// the caller can publish only changes.
type Tank struct {
	name          string
	labels        []string
	inputs        []*DebouncedInput
	percentLookup []int
	clock         Clock
	lastReport    map[string]bool
}

// NewTank builds a tank from the given sources, in ascending threshold
// order. It fails when fewer than two sources are supplied or when the
// label count does not match the source count; an invalid tank must abort
// startup rather than run degraded.
func NewTank(cfg TankConfig, sources []Source, clock Clock) (*Tank, error) {
	labels := cfg.Labels
	if labels == nil {
		labels = DefaultLabels
	}
	if len(labels) != len(sources) {
		return nil, fmt.Errorf("tank %q: %d labels for %d sensors: %w",
			cfg.Name, len(labels), len(sources), ErrLabelMismatch)
	}
	if len(sources) < 2 {
		return nil, fmt.Errorf("tank %q: %w", cfg.Name, ErrTooFewSensors)
	}

	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}

	t := &Tank{
		name:   cfg.Name,
		labels: append([]string(nil), labels...),
		clock:  clock,
	}
	for _, src := range sources {
		t.inputs = append(t.inputs, NewDebouncedInput(src, cfg.ActiveHigh, debounce, clock))
	}

	// percentLookup[i] = 100*i/(N-1): 0 for the lowest sensor, 100 for the
	// highest, evenly spaced (integer floor) in between.
	n := len(t.inputs)
	t.percentLookup = make([]int, n)
	for i := range t.percentLookup {
		t.percentLookup[i] = 100 * i / (n - 1)
	}
	return t, nil
}

// Name returns the tank identifier.
func (t *Tank) Name() string { return t.name }

// Labels returns the sensor labels in ascending threshold order.
func (t *Tank) Labels() []string {
	return append([]string(nil), t.labels...)
}

// ReadLevels evaluates every sensor in label order and returns the results.
// Each read advances that sensor's debounce state; there are no other side
// effects.
func (t *Tank) ReadLevels() Levels {
	levels := make(Levels, 0, len(t.inputs))
	for i, in := range t.inputs {
		levels = append(levels, LevelReading{Label: t.labels[i], Active: in.IsActive()})
	}
	return levels
}

// FillPercentage derives a coarse 0-100 estimate from the given levels,
// reading fresh levels when nil. Sensors are assumed monotonic (a wet
// higher sensor implies wet lower ones), so only the highest active sensor
// matters: a dead lower sensor cannot drag the estimate down, and a single
// spurious low reading cannot push it up.
func (t *Tank) FillPercentage(levels Levels) int {
	if levels == nil {
		levels = t.ReadLevels()
	}
	highest := -1
	for i, label := range t.labels {
		if active, ok := levels.Get(label); ok && active {
			highest = i
		}
	}
	if highest < 0 {
		return 0
	}
	return t.percentLookup[highest]
}

// Snapshot reads the current levels and packages them with the derived
// percentage.
func (t *Tank) Snapshot() Snapshot {
	levels := t.ReadLevels()
	return Snapshot{
		Tank:       t.name,
		Levels:     levels,
		Percentage: t.FillPercentage(levels),
		Time:       t.clock(),
	}
}

// HasChanged reports whether the given levels differ from the last
// remembered report. It is true when nothing has been remembered yet, and
// when any label's state differs — a label absent from the remembered map
// always counts as different. It does not update the remembered state.
func (t *Tank) HasChanged(levels Levels) bool {
	if t.lastReport == nil {
		return true
	}
	for _, r := range levels {
		prev, ok := t.lastReport[r.Label]
		if !ok || prev != r.Active {
			return true
		}
	}
	return false
}

// Remember stores a copy of the given levels as the last reported state.
// The copy matters: the caller may keep mutating its Levels value.
func (t *Tank) Remember(levels Levels) {
	report := make(map[string]bool, len(levels))
	for _, r := range levels {
		report[r.Label] = r.Active
	}
	t.lastReport = report
}
