package sizeof

import "testing"

func TestEstimate_Primitives(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		v    any
		want int64
	}{
		{"nil", nil, 0},
		{"string", "hello", 5},
		{"bytes", []byte{1, 2, 3, 4}, 4},
		{"bool-true", true, 4},
		{"bool-false", false, 5},
		{"int", 12345, 5},
		{"int64-negative", int64(-7), 2},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Estimate(tc.v); got != tc.want {
				t.Fatalf("Estimate(%v) = %d, want %d", tc.v, got, tc.want)
			}
		})
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	t.Parallel()

	type composite struct {
		A int
		B string
		M map[string]int
	}
	v := composite{A: 1, B: "x", M: map[string]int{"a": 1, "b": 2, "c": 3}}

	first := Estimate(v)
	for i := 0; i < 20; i++ {
		if got := Estimate(v); got != first {
			t.Fatalf("Estimate not deterministic: got %d, want %d", got, first)
		}
	}
}

func TestEstimate_CompositeNonZero(t *testing.T) {
	t.Parallel()

	type point struct{ X, Y int }
	if got := Estimate(point{1, 2}); got <= 0 {
		t.Fatalf("want positive size for composite value, got %d", got)
	}
}
