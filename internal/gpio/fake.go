package gpio

// FakeSource is a test double that returns scripted raw values.
type FakeSource struct {
	// Samples contains scripted raw values. Each call to RawState()
	// consumes the next sample; once exhausted, the last sample repeats.
	Samples []bool

	// index tracks current position in Samples
	index int
}

// NewFakeSource creates a FakeSource with the given samples.
func NewFakeSource(samples ...bool) *FakeSource {
	return &FakeSource{Samples: samples}
}

// RawState returns the next scripted sample, repeating the last one once
// samples are exhausted. With no samples configured it returns false.
func (f *FakeSource) RawState() bool {
	if len(f.Samples) == 0 {
		return false
	}

	v := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return v
}

// Set replaces the script with a single held value, so tests can drive the
// signal level directly.
func (f *FakeSource) Set(v bool) {
	f.Samples = []bool{v}
	f.index = 0
}

// Reset rewinds the script to the beginning.
func (f *FakeSource) Reset() {
	f.index = 0
}
