//go:build linux

package gpio

import (
	"fmt"
	"log"

	"github.com/warthog618/go-gpiocdev"
)

// Chip owns the GPIO character device and the lines requested from it.
type Chip struct {
	chip  *gpiocdev.Chip
	lines []*Line
}

// Line reads raw values from one requested GPIO line. A read failure logs
// and repeats the last good value: transient hardware errors are absorbed
// here so the debounce core only ever sees booleans.
type Line struct {
	line *gpiocdev.Line
	pin  int
	last bool
}

// Open opens the named GPIO chip ("gpiochip0" on a Pi).
func Open(name string) (*Chip, error) {
	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", name, err)
	}
	return &Chip{chip: chip}, nil
}

// RequestLine requests a pin as input. The pull resistor is chosen to match
// the sensor polarity: pull-down for active-high wiring so idle channels
// read 0, pull-up for active-low so idle channels read 1.
func (c *Chip) RequestLine(pin int, activeHigh bool) (*Line, error) {
	pull := gpiocdev.WithPullDown
	if !activeHigh {
		pull = gpiocdev.WithPullUp
	}

	line, err := c.chip.RequestLine(pin, gpiocdev.AsInput, pull)
	if err != nil {
		return nil, fmt.Errorf("request pin %d: %w", pin, err)
	}

	l := &Line{line: line, pin: pin}
	// Seed the last-good value so an early read error has something to
	// fall back on.
	if v, err := line.Value(); err == nil {
		l.last = v != 0
	}

	c.lines = append(c.lines, l)
	return l, nil
}

// RawState returns the line's current raw value.
func (l *Line) RawState() bool {
	v, err := l.line.Value()
	if err != nil {
		log.Printf("gpio: read pin %d: %v", l.pin, err)
		return l.last
	}
	l.last = v != 0
	return l.last
}

// Close releases all requested lines and the chip. Lines are reconfigured
// to input with pull-down first, matching Pi boot defaults, so externally
// attached optocouplers see a clean state across restarts.
func (c *Chip) Close() error {
	var errs []error

	for _, l := range c.lines {
		if err := l.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", l.pin, err))
		}
		if err := l.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", l.pin, err))
		}
	}
	if c.chip != nil {
		if err := c.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
