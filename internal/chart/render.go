package chart

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/vector"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

const (
	DefaultWidth     = 1024
	DefaultHeight    = 480
	DefaultLineColor = "#8884d8"

	defaultFontSize = 12.0
	lineWidth       = 2.0
	markerRadius    = 3.5
	markerSides     = 12

	// Default border sizes in pixels
	defaultTopBorder    = 30
	defaultLeftBorder   = 70
	defaultBottomBorder = 60
	defaultRightBorder  = 40
)

var (
	// ErrInvalidDomain is returned when the frequency domain is negative or unordered
	ErrInvalidDomain = errors.New("invalid frequency domain")

	gridColor  = color.Gray{Y: 0xe0}
	frameColor = color.Gray{Y: 0x80}
)

// Borders defines the sizes of white space around the plot area
type Borders struct {
	Top    int `yaml:"top" json:"top" mapstructure:"top"`          // Space for the title
	Left   int `yaml:"left" json:"left" mapstructure:"left"`       // Space for the power scale
	Bottom int `yaml:"bottom" json:"bottom" mapstructure:"bottom"` // Space for the frequency scale and info bar
	Right  int `yaml:"right" json:"right" mapstructure:"right"`    // Right padding
}

// Config holds the chart image options. Zero values are replaced by defaults.
type Config struct {
	Width     int     `yaml:"width" json:"width" mapstructure:"width"`
	Height    int     `yaml:"height" json:"height" mapstructure:"height"`
	FontSize  float64 `yaml:"fontSize" json:"fontSize" mapstructure:"fontSize"`
	LineColor string  `yaml:"lineColor" json:"lineColor" mapstructure:"lineColor"` // "#rrggbb"
	Borders   Borders `yaml:"borders" json:"borders" mapstructure:"borders"`
}

// Renderer draws a frequency/power line chart of a series. Points are
// coloured by their strength class.
type Renderer struct {
	config    Config
	font      *truetype.Font
	lineColor color.Color
	palette   map[spectrum.ColorClass]color.Color
}

// NewRenderer creates a new chart renderer with the given configuration
func NewRenderer(config Config) (*Renderer, error) {
	// Set defaults for zero values
	if config.Width == 0 {
		config.Width = DefaultWidth
	}
	if config.Height == 0 {
		config.Height = DefaultHeight
	}
	if config.FontSize == 0 {
		config.FontSize = defaultFontSize
	}
	if config.LineColor == "" {
		config.LineColor = DefaultLineColor
	}
	if config.Borders.Top == 0 {
		config.Borders.Top = defaultTopBorder
	}
	if config.Borders.Left == 0 {
		config.Borders.Left = defaultLeftBorder
	}
	if config.Borders.Bottom == 0 {
		config.Borders.Bottom = defaultBottomBorder
	}
	if config.Borders.Right == 0 {
		config.Borders.Right = defaultRightBorder
	}

	if config.Width <= config.Borders.Left+config.Borders.Right ||
		config.Height <= config.Borders.Top+config.Borders.Bottom {
		return nil, fmt.Errorf("chart size %dx%d leaves no room for the plot", config.Width, config.Height)
	}

	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	lineColor, err := colorful.Hex(config.LineColor)
	if err != nil {
		return nil, fmt.Errorf("parsing line colour: %w", err)
	}

	palette, err := classPalette()
	if err != nil {
		return nil, err
	}

	return &Renderer{
		config:    config,
		font:      parsedFont,
		lineColor: lineColor,
		palette:   palette,
	}, nil
}

// Render draws the series over domain. Points outside of the domain and
// points without a power value are skipped.
func (r *Renderer) Render(series []spectrum.SeriesPoint, domain spectrum.FrequencyRange) (*image.RGBA, error) {
	if !domain.Valid() {
		return nil, fmt.Errorf("%w: %s - %s", ErrInvalidDomain,
			spectrum.FormatFrequency(domain.Start), spectrum.FormatFrequency(domain.Stop))
	}

	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	points := visible(series, domain)
	p := newPlot(r.config, domain, powerBounds(points))

	ann := newAnnotator(r.font, r.config)
	defer ann.Close()

	// First draw the grid and annotations, then the data on top
	if err := ann.annotate(img, p, len(points)); err != nil {
		return nil, fmt.Errorf("drawing annotations: %w", err)
	}

	r.drawLine(img, p, points)
	r.drawMarkers(img, p, points)

	return img, nil
}

// WritePNG renders the series and encodes it to w as PNG
func (r *Renderer) WritePNG(w io.Writer, series []spectrum.SeriesPoint, domain spectrum.FrequencyRange) error {
	img, err := r.Render(series, domain)
	if err != nil {
		return err
	}
	if err = png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func (r *Renderer) drawLine(img *image.RGBA, p plot, points []spectrum.SeriesPoint) {
	if len(points) < 2 {
		return
	}

	z := vector.NewRasterizer(img.Bounds().Dx(), img.Bounds().Dy())
	for i := 1; i < len(points); i++ {
		x0, y0 := p.point(points[i-1])
		x1, y1 := p.point(points[i])
		strokeSegment(z, x0, y0, x1, y1, lineWidth)
	}
	z.Draw(img, img.Bounds(), image.NewUniform(r.lineColor), image.Point{})
}

func (r *Renderer) drawMarkers(img *image.RGBA, p plot, points []spectrum.SeriesPoint) {
	byClass := make(map[spectrum.ColorClass][]spectrum.SeriesPoint)
	for _, point := range points {
		class := spectrum.MapVisual(point.Power).Class
		byClass[class] = append(byClass[class], point)
	}

	z := vector.NewRasterizer(img.Bounds().Dx(), img.Bounds().Dy())
	for class, classPoints := range byClass {
		z.Reset(img.Bounds().Dx(), img.Bounds().Dy())
		for _, point := range classPoints {
			x, y := p.point(point)
			marker(z, x, y, markerRadius)
		}
		z.Draw(img, img.Bounds(), image.NewUniform(r.palette[class]), image.Point{})
	}
}

// strokeSegment adds a line segment of width w as a filled quad
func strokeSegment(z *vector.Rasterizer, x0, y0, x1, y1, w float32) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}

	nx, ny := -dy/length*w/2, dx/length*w/2

	z.MoveTo(x0+nx, y0+ny)
	z.LineTo(x1+nx, y1+ny)
	z.LineTo(x1-nx, y1-ny)
	z.LineTo(x0-nx, y0-ny)
	z.ClosePath()
}

// marker adds a regular polygon approximating a circle
func marker(z *vector.Rasterizer, x, y, radius float32) {
	for i := 0; i <= markerSides; i++ {
		angle := 2 * math.Pi * float64(i) / markerSides
		px := x + radius*float32(math.Cos(angle))
		py := y + radius*float32(math.Sin(angle))
		if i == 0 {
			z.MoveTo(px, py)
		} else {
			z.LineTo(px, py)
		}
	}
	z.ClosePath()
}

// visible drops points outside of domain or without a power value
func visible(series []spectrum.SeriesPoint, domain spectrum.FrequencyRange) []spectrum.SeriesPoint {
	points := make([]spectrum.SeriesPoint, 0, len(series))
	for _, point := range series {
		if math.IsNaN(point.Power) || math.IsInf(point.Power, 0) || !domain.Contains(point.Frequency) {
			continue
		}
		points = append(points, point)
	}
	return points
}
