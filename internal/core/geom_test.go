package core

import "testing"

func TestPosStep(t *testing.T) {
	tests := []struct {
		name     string
		dir      Dir
		expected Pos
	}{
		{"up", DirUp, P(5, 4)},
		{"down", DirDown, P(5, 6)},
		{"left", DirLeft, P(4, 5)},
		{"right", DirRight, P(6, 5)},
		{"none", DirNone, P(5, 5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := P(5, 5).Step(tc.dir)
			if result != tc.expected {
				t.Errorf("Step(%v) = %v, expected %v", tc.dir, result, tc.expected)
			}
		})
	}
}

func TestPosChebyshev(t *testing.T) {
	tests := []struct {
		a, b     Pos
		expected int
	}{
		{P(0, 0), P(0, 0), 0},
		{P(0, 0), P(3, 3), 3},
		{P(0, 0), P(-3, 1), 3},
		{P(2, 2), P(6, 2), 4},
		{P(2, 2), P(3, 5), 3},
	}

	for _, tc := range tests {
		result := tc.a.Chebyshev(tc.b)
		if result != tc.expected {
			t.Errorf("%v.Chebyshev(%v) = %d, expected %d", tc.a, tc.b, result, tc.expected)
		}
		// Distance is symmetric
		if reverse := tc.b.Chebyshev(tc.a); reverse != result {
			t.Errorf("Chebyshev not symmetric: %d vs %d", result, reverse)
		}
	}
}

func TestAbs(t *testing.T) {
	for _, v := range []int{-5, 5, 0} {
		want := v
		if v < 0 {
			want = -v
		}
		if got := Abs(v); got != want {
			t.Errorf("Abs(%d) = %d, expected %d", v, got, want)
		}
	}
}
