package logic

import "time"

// DebouncedInput wraps one raw binary signal source and filters it down to
// a stable logical value. The stable value only changes after the raw value
// has held constant for the full debounce duration since its last
// transition, so rapid toggling never reaches it.
type DebouncedInput struct {
	source      Source
	activeValue bool
	debounce    time.Duration
	clock       Clock

	lastRaw    bool
	lastChange time.Time
	stable     bool
}

// NewDebouncedInput creates an input around the given source. The source is
// sampled once so that the first IsActive call reflects the true initial
// wiring state rather than a false "inactive" transient.
func NewDebouncedInput(source Source, activeValue bool, debounce time.Duration, clock Clock) *DebouncedInput {
	initial := source.RawState()
	return &DebouncedInput{
		source:      source,
		activeValue: activeValue,
		debounce:    debounce,
		clock:       clock,
		lastRaw:     initial,
		lastChange:  clock(),
		stable:      initial,
	}
}

// RawState returns the instantaneous, unfiltered signal reading.
func (d *DebouncedInput) RawState() bool {
	return d.source.RawState()
}

// IsActive samples the source and returns whether the stable value matches
// the configured active value. A raw transition restarts the debounce
// window without touching the stable value; only a raw value that has held
// for at least the debounce duration is promoted.
func (d *DebouncedInput) IsActive() bool {
	now := d.clock()
	raw := d.source.RawState()
	if raw != d.lastRaw {
		d.lastRaw = raw
		d.lastChange = now
	} else if now.Sub(d.lastChange) >= d.debounce {
		d.stable = d.lastRaw
	}
	return d.stable == d.activeValue
}
