// Package gpio provides raw digital input sources with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// DefaultChip is the GPIO chip device name on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// Source reads one raw digital input. It matches logic.Source, so lines
// from this package plug straight into the debounce core without the core
// importing hardware code.
type Source interface {
	RawState() bool
}
