package bitstream

import (
	"math"
	"testing"
)

func TestRationalScale(t *testing.T) {
	tests := []struct {
		name    string
		n, d, s int64
		want    int64
		ok      bool
	}{
		{"simple", 90000, 90000, 1_000_000, 1_000_000, true},
		{"half", 45000, 90000, 1_000_000, 500_000, true},
		{"zero_d", 1, 0, 1, 0, false},
		{"zero_n", 0, 90000, 1_000_000, 0, true},
		{"negative_n", -90000, 90000, 1_000_000, -1_000_000, true},
		{"negative_d", 90000, -90000, 1_000_000, -1_000_000, true},
		{"both_negative", -90000, -90000, 1_000_000, 1_000_000, true},
		{"large_overflow", math.MaxInt64, 1, 2, 0, false},
		{"no_overflow_large_d", math.MaxInt64, math.MaxInt64, 1, 1, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := RationalScale(test.n, test.d, test.s)
			if ok != test.ok {
				t.Fatalf("RationalScale(%d, %d, %d) ok = %v, want %v", test.n, test.d, test.s, ok, test.ok)
			}

			if ok && got != test.want {
				t.Errorf("RationalScale(%d, %d, %d) = %d, want %d", test.n, test.d, test.s, got, test.want)
			}
		})
	}
}

func TestRationalScalePrecision(t *testing.T) {
	// 1 sample at a 48000 timescale should be ~20833ns, not truncated to 0
	// by naive integer division of (n*s)/d done in the wrong order.
	got, ok := RationalScale(1, 48000, 1_000_000_000)
	if !ok {
		t.Fatal("RationalScale reported overflow unexpectedly")
	}

	if got != 20833 {
		t.Errorf("RationalScale(1, 48000, 1e9) = %d, want 20833", got)
	}
}
