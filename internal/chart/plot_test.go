package chart

import (
	"math"
	"slices"
	"testing"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

func TestNiceStep(t *testing.T) {
	tests := []struct {
		span  float64
		count float64
		want  float64
	}{
		{100, 5, 20},
		{7, 5, 2},
		{0.3, 3, 0.1},
		{10e6, 4, 5e6},
		{0, 5, 1},
	}

	for _, tt := range tests {
		if got := niceStep(tt.span, tt.count); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("niceStep(%v, %v) = %v, want %v", tt.span, tt.count, got, tt.want)
		}
	}
}

func TestTicks(t *testing.T) {
	got := ticks(bounds{Min: -5, Max: 100}, 20)
	want := []float64{0, 20, 40, 60, 80, 100}
	if !slices.Equal(got, want) {
		t.Errorf("ticks() = %v, want %v", got, want)
	}
}

func TestTicks_Extremes(t *testing.T) {
	tests := []struct {
		name string
		b    bounds
		step float64
		want int
	}{
		{"step below resolution", bounds{Min: 1e18, Max: 1e18 + 128}, 50, 1},
		{"fractional step", bounds{Min: 1024, Max: 1024.5}, 0.125, 5},
		{"capped", bounds{Min: 0, Max: 1e9}, 1, maxTicks},
		{"zero step", bounds{Min: 0, Max: 10}, 0, 0},
		{"inverted", bounds{Min: 10, Max: 0}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ticks(tt.b, tt.step)
			if len(got) != tt.want {
				t.Fatalf("len(ticks()) = %d, want %d: %v", len(got), tt.want, got)
			}
			for i := 1; i < len(got); i++ {
				if got[i] <= got[i-1] {
					t.Errorf("ticks() not increasing at %d: %v", i, got)
				}
			}
		})
	}
}

func TestPowerBounds(t *testing.T) {
	tests := []struct {
		name   string
		points []spectrum.SeriesPoint
		want   bounds
	}{
		{"empty", nil, defaultPowerBounds},
		{"single", []spectrum.SeriesPoint{{Power: 50}}, bounds{Min: 48.5, Max: 51.5}},
		{"spread", []spectrum.SeriesPoint{{Power: 10}, {Power: 90}}, bounds{Min: -20, Max: 120}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := powerBounds(tt.points); got != tt.want {
				t.Errorf("powerBounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFormatPower(t *testing.T) {
	tests := []struct {
		v, step float64
		want    string
	}{
		{20, 20, "20"},
		{48.5, 0.5, "48.5"},
		{0.30000000000000004, 0.1, "0.3"},
		{-60, 10, "-60"},
	}

	for _, tt := range tests {
		if got := formatPower(tt.v, tt.step); got != tt.want {
			t.Errorf("formatPower(%v, %v) = %q, want %q", tt.v, tt.step, got, tt.want)
		}
	}
}
