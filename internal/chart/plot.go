package chart

import (
	"image"
	"math"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

// defaultPowerBounds is used for an empty series, it matches the visual
// strength scale.
var defaultPowerBounds = bounds{Min: 0, Max: 100}

type bounds struct {
	Min, Max float64
}

func (b bounds) span() float64 {
	return b.Max - b.Min
}

// plot maps frequency and power to pixel coordinates of the plot area
type plot struct {
	area   image.Rectangle
	domain spectrum.FrequencyRange
	power  bounds
}

func newPlot(config Config, domain spectrum.FrequencyRange, power bounds) plot {
	return plot{
		area: image.Rect(
			config.Borders.Left,
			config.Borders.Top,
			config.Width-config.Borders.Right,
			config.Height-config.Borders.Bottom,
		),
		domain: domain,
		power:  power,
	}
}

// x returns the horizontal pixel of a frequency. A zero-width domain maps
// to the center of the plot.
func (p plot) x(frequency float64) float32 {
	if p.domain.Width() == 0 {
		return float32(p.area.Min.X) + float32(p.area.Dx())/2
	}
	ratio := (frequency - p.domain.Start) / p.domain.Width()
	return float32(p.area.Min.X) + float32(ratio*float64(p.area.Dx()))
}

func (p plot) y(power float64) float32 {
	ratio := (p.power.Max - power) / p.power.span()
	return float32(p.area.Min.Y) + float32(ratio*float64(p.area.Dy()))
}

func (p plot) point(point spectrum.SeriesPoint) (float32, float32) {
	return p.x(point.Frequency), p.y(point.Power)
}

// powerBounds returns the power range of the points padded to whole steps,
// so the extremes do not touch the frame.
func powerBounds(points []spectrum.SeriesPoint) bounds {
	if len(points) == 0 {
		return defaultPowerBounds
	}

	b := bounds{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, point := range points {
		b.Min = min(b.Min, point.Power)
		b.Max = max(b.Max, point.Power)
	}

	if b.span() == 0 {
		b.Min--
		b.Max++
	}

	step := niceStep(b.span(), 5)
	return bounds{
		Min: math.Floor(b.Min/step)*step - step,
		Max: math.Ceil(b.Max/step)*step + step,
	}
}

// niceStep returns a 1, 2 or 5 multiple of a power of ten that splits span
// into about count steps.
func niceStep(span float64, count float64) float64 {
	if span <= 0 || count <= 0 {
		return 1
	}

	rough := span / count
	magnitude := math.Pow10(int(math.Floor(math.Log10(rough))))

	for _, m := range []float64{1, 2, 5, 10} {
		if step := m * magnitude; step >= rough {
			return step
		}
	}

	return 10 * magnitude
}

// maxTicks bounds the labels of one axis
const maxTicks = 64

// ticks returns the multiples of step within b. Multiples that are not
// representable at the magnitude of b collapse into one tick.
func ticks(b bounds, step float64) []float64 {
	if !(step > 0) || b.span() < 0 {
		return nil
	}

	first := math.Ceil(b.Min / step)
	count := math.Floor(b.Max/step+1e-6) - first + 1
	if !(count >= 1) {
		return nil
	}
	count = min(count, maxTicks)

	values := make([]float64, 0, int(count))
	for i := range int(count) {
		v := (first + float64(i)) * step
		if n := len(values); n > 0 && v <= values[n-1] {
			break
		}
		values = append(values, v)
	}
	return values
}
