package profile

import "testing"

func TestNewAppliesOptions(t *testing.T) {
	p := New(WithMode("cpu"), WithPath("/tmp/x"), WithQuiet(true), WithPath("/tmp/y"))

	want := Profiler{Mode: "cpu", Path: "/tmp/y", Quiet: true}
	if p != want {
		t.Errorf("New() = %+v, want %+v", p, want)
	}
}

func TestStartInert(t *testing.T) {
	tests := []struct {
		name string
		p    Profiler
	}{
		{"zero", Profiler{}},
		{"unknown mode", New(WithMode("nope"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.p.Enabled() {
				t.Fatalf("Enabled() = true for %+v", tt.p)
			}

			s := tt.p.Start()
			if _, ok := s.(ignore); !ok {
				t.Errorf("Start() = %T, want ignore", s)
			}

			s.Stop()
			s.Stop()
		})
	}
}

func TestModesSorted(t *testing.T) {
	m := Modes()
	for i := 1; i < len(m); i++ {
		if m[i-1] >= m[i] {
			t.Errorf("Modes() not sorted: %v", m)
		}
	}
}
