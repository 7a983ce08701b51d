package gpio

import "testing"

func TestFakeSourceConsumesSamples(t *testing.T) {
	f := NewFakeSource(true, false, true)

	want := []bool{true, false, true}
	for i, w := range want {
		if got := f.RawState(); got != w {
			t.Errorf("sample %d: expected %v, got %v", i, w, got)
		}
	}

	// Exhausted: last sample repeats.
	if !f.RawState() {
		t.Error("expected last sample to repeat")
	}
	if !f.RawState() {
		t.Error("expected last sample to keep repeating")
	}
}

func TestFakeSourceNoSamples(t *testing.T) {
	f := NewFakeSource()
	if f.RawState() {
		t.Error("expected false with no samples")
	}
}

func TestFakeSourceSet(t *testing.T) {
	f := NewFakeSource(false, false)
	f.RawState()

	f.Set(true)
	if !f.RawState() {
		t.Error("expected held value after Set")
	}
	if !f.RawState() {
		t.Error("expected value to hold")
	}
}

func TestFakeSourceReset(t *testing.T) {
	f := NewFakeSource(true, false)

	f.RawState()
	f.RawState()
	f.Reset()

	if !f.RawState() {
		t.Error("expected first sample again after reset")
	}
}
