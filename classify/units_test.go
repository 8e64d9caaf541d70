package classify

import (
	"math"
	"testing"
)

func TestParseHeightMeters(t *testing.T) {
	tests := []struct {
		value  string
		meters float64
		ok     bool
	}{
		{"10", 10, true},
		{"10.5", 10.5, true},
		{" 12 ", 12, true},
		{"10 m", 10, true},
		{"10m", 10, true},
		{"10 meter", 10, true},
		{"3 metres", 3, true},
		{"0.12 km", 120, true},
		{"10 ft", 3.048, true},
		{"10ft", 3.048, true},
		{"10 feet", 3.048, true},
		{"12'", 3.6576, true},
		{`5'11"`, 1.8034, true},
		{`6'`, 1.8288, true},
		{"12 in", 0.3048, true},
		{`12"`, 0.3048, true},
		{"1,5", 1.5, true},
		{"1,5 m", 1.5, true},
		{"-2", -2, true},

		{"", 0, false},
		{"abc", 0, false},
		{"ft", 0, false},
		{"10 furlong", 0, false},
		{"'", 0, false},
		{`x'1"`, 0, false},
		{`5'x"`, 0, false},
		{"10 10", 0, false},
	}

	for _, test := range tests {
		meters, ok := ParseHeightMeters(test.value)
		if ok != test.ok {
			t.Errorf("%q: ok=%v, want %v", test.value, ok, test.ok)
			continue
		}
		if ok && math.Abs(meters-test.meters) > 1e-9 {
			t.Errorf("%q: got %v, want %v", test.value, meters, test.meters)
		}
	}
}

func TestParseLevels(t *testing.T) {
	tests := []struct {
		value  string
		levels int64
		ok     bool
	}{
		{"5", 5, true},
		{" 3 ", 3, true},
		{"2.5", 2, true},
		{"0", 0, true},
		{"many", 0, false},
		{"", 0, false},
	}
	for _, test := range tests {
		levels, ok := parseLevels(test.value)
		if ok != test.ok || levels != test.levels {
			t.Errorf("%q: got %d/%v, want %d/%v", test.value, levels, ok, test.levels, test.ok)
		}
	}
}
