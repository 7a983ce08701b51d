//go:build !linux

package gpio

import "errors"

// Chip is not available on non-Linux platforms.
type Chip struct{}

// Line is not available on non-Linux platforms.
type Line struct{}

// Open returns an error on non-Linux platforms.
func Open(name string) (*Chip, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// RequestLine is not implemented on non-Linux platforms.
func (c *Chip) RequestLine(pin int, activeHigh bool) (*Line, error) {
	return nil, errors.New("gpio: not supported")
}

// RawState is not implemented on non-Linux platforms.
func (l *Line) RawState() bool {
	return false
}

// Close is not implemented on non-Linux platforms.
func (c *Chip) Close() error {
	return nil
}
