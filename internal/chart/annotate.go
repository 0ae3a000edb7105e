package chart

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

const (
	dpi                     = 72.0
	tickMarkSize            = 5
	pixelsPerFrequencyLabel = 150.0
	pixelsPerPowerLabel     = 50.0
)

type annotator struct {
	context  *freetype.Context
	fontFace font.Face
	config   Config
}

func newAnnotator(parsedFont *truetype.Font, config Config) *annotator {
	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, p plot, points int) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	if err := a.drawFrequencyScale(img, p); err != nil {
		return fmt.Errorf("drawing frequency scale: %w", err)
	}
	if err := a.drawPowerScale(img, p); err != nil {
		return fmt.Errorf("drawing power scale: %w", err)
	}
	drawFrame(img, p.area)

	if err := a.drawTitle(p); err != nil {
		return fmt.Errorf("drawing title: %w", err)
	}
	if err := a.drawInfoBar(img, p, points); err != nil {
		return fmt.Errorf("drawing info bar: %w", err)
	}

	return nil
}

func (a *annotator) fontHeight() int {
	metrics := a.fontFace.Metrics()
	return (metrics.Ascent + metrics.Descent).Round()
}

func (a *annotator) drawFrequencyScale(img *image.RGBA, p plot) error {
	domain := bounds{Min: p.domain.Start, Max: p.domain.Stop}

	var frequencies []float64
	if domain.span() == 0 {
		frequencies = []float64{domain.Min}
	} else {
		step := niceStep(domain.span(), float64(p.area.Dx())/pixelsPerFrequencyLabel)
		frequencies = ticks(domain, step)
	}

	textY := p.area.Max.Y + tickMarkSize + a.fontHeight()

	for _, frequency := range frequencies {
		x := int(p.x(frequency))

		// Grid line and tick mark
		for y := p.area.Min.Y; y < p.area.Max.Y; y++ {
			img.Set(x, y, gridColor)
		}
		for y := p.area.Max.Y; y < p.area.Max.Y+tickMarkSize; y++ {
			img.Set(x, y, color.Black)
		}

		label := spectrum.FormatFrequency(frequency)
		width := font.MeasureString(a.fontFace, label)
		pt := freetype.Pt(x-(width.Round()/2), textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing frequency label: %w", err)
		}
	}

	return nil
}

func (a *annotator) drawPowerScale(img *image.RGBA, p plot) error {
	step := niceStep(p.power.span(), math.Max(float64(p.area.Dy())/pixelsPerPowerLabel, 1))
	metrics := a.fontFace.Metrics()

	for _, power := range ticks(p.power, step) {
		y := int(p.y(power))

		for x := p.area.Min.X; x < p.area.Max.X; x++ {
			img.Set(x, y, gridColor)
		}
		for x := p.area.Min.X - tickMarkSize; x < p.area.Min.X; x++ {
			img.Set(x, y, color.Black)
		}

		// Right-align the label to the tick mark, centered vertically
		label := formatPower(power, step)
		width := font.MeasureString(a.fontFace, label)
		textX := p.area.Min.X - tickMarkSize - 3 - width.Round()
		textY := y + a.fontHeight()/2 - metrics.Descent.Round()

		if _, err := a.context.DrawString(label, freetype.Pt(textX, textY)); err != nil {
			return fmt.Errorf("drawing power label: %w", err)
		}
	}

	return nil
}

func (a *annotator) drawTitle(p plot) error {
	pt := freetype.Pt(p.area.Min.X, p.area.Min.Y-a.fontHeight()/2)
	_, err := a.context.DrawString("Power (dB)", pt)
	return err
}

func (a *annotator) drawInfoBar(img *image.RGBA, p plot, points int) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Range: %s - %s",
		spectrum.FormatFrequency(p.domain.Start),
		spectrum.FormatFrequency(p.domain.Stop)))
	sb.WriteString(fmt.Sprintf("; Points: %d", points))

	if p.domain.Width() > 0 {
		freqPerPixel := p.domain.Width() / float64(p.area.Dx())
		sb.WriteString(fmt.Sprintf("; 1px = %s", spectrum.FormatFrequency(freqPerPixel)))
	}

	// Bottom line of the image, below the frequency labels
	textY := img.Bounds().Max.Y - a.fontFace.Metrics().Descent.Round() - 4

	pt := freetype.Pt(p.area.Min.X, textY)
	if _, err := a.context.DrawString(sb.String(), pt); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}

	return nil
}

func drawFrame(img *image.RGBA, area image.Rectangle) {
	for x := area.Min.X; x <= area.Max.X; x++ {
		img.Set(x, area.Min.Y, frameColor)
		img.Set(x, area.Max.Y, frameColor)
	}
	for y := area.Min.Y; y <= area.Max.Y; y++ {
		img.Set(area.Min.X, y, frameColor)
		img.Set(area.Max.X, y, frameColor)
	}
}

// formatPower renders v with as many decimals as step needs
func formatPower(v, step float64) string {
	decimals := max(0, int(-math.Floor(math.Log10(step))))
	return fmt.Sprintf("%.*f", decimals, v)
}
