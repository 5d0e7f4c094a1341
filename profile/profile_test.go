package profile

import (
	"slices"
	"testing"
)

func TestProfilerStartDisabled(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{"", "bogus"} {
		s := Profiler{Mode: mode, Path: t.TempDir(), Quiet: true}.Start()
		if _, ok := s.(ignore); !ok {
			t.Errorf("Start() with mode %q = %T, want no-op", mode, s)
		}

		s.Stop()
	}
}

func TestModes(t *testing.T) {
	t.Parallel()

	modes := Modes()

	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, want sorted", modes)
	}
}
