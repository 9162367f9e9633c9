// Package preview rasterizes compiled gradients with gogpu/gg so they can be
// written to PNG or drawn into a terminal.
package preview

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/yacobolo/gradgen/internal/color"
	"github.com/yacobolo/gradgen/internal/gradient"
)

var (
	// ErrInvalidSize is returned for a non-positive canvas size.
	ErrInvalidSize = errors.New("preview: width and height must be positive")

	// ErrNoStops is returned when a result carries no color stops.
	ErrNoStops = errors.New("preview: gradient has no color stops")
)

// Render paints result onto a new width x height canvas. The caller owns the
// returned context and must Close it.
func Render(result gradient.Result, params gradient.Params, width, height int) (*gg.Context, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	if len(result.Stops) == 0 {
		return nil, ErrNoStops
	}

	brush, err := NewBrush(result, params, float64(width), float64(height))
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(width, height)
	dc.SetFillBrush(brush)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	if err := dc.Fill(); err != nil {
		_ = dc.Close()
		return nil, fmt.Errorf("preview: fill: %w", err)
	}
	return dc, nil
}

// WritePNG renders result and encodes it as PNG to w.
func WritePNG(w io.Writer, result gradient.Result, params gradient.Params, width, height int) error {
	dc, err := Render(result, params, width, height)
	if err != nil {
		return err
	}
	defer func() { _ = dc.Close() }()

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("preview: encode png: %w", err)
	}
	return nil
}

// SavePNG renders result into the PNG file at path.
func SavePNG(path string, result gradient.Result, params gradient.Params, width, height int) error {
	dc, err := Render(result, params, width, height)
	if err != nil {
		return err
	}
	defer func() { _ = dc.Close() }()

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("preview: save %s: %w", path, err)
	}
	return nil
}

// NewBrush builds the gg brush matching the CSS geometry of result on a
// w x h box.
func NewBrush(result gradient.Result, params gradient.Params, w, h float64) (gg.Brush, error) {
	anchors := gradient.Anchors(result.Stops, params.Type, result.TileSize)
	if len(anchors) == 0 {
		return nil, ErrNoStops
	}

	cx, cy := w/2, h/2

	switch params.Type {
	case gradient.Radial:
		b := gg.NewRadialGradientBrush(cx, cy, 0, math.Hypot(cx, cy))
		for _, a := range anchors {
			b.AddColorStop(a.Offset/100, toRGBA(a.Color))
		}
		return b, nil

	case gradient.RepeatingRadial:
		start, period := span(anchors)
		b := gg.NewRadialGradientBrush(cx, cy, start, start+period).SetExtend(gg.ExtendRepeat)
		addRelative(anchors, start, period, b.AddColorStop)
		return b, nil

	case gradient.Conic:
		b := gg.NewSweepGradientBrush(cx, cy, sweepStart(params.Angle))
		for _, a := range anchors {
			b.AddColorStop(a.Offset/100, toRGBA(a.Color))
		}
		return b, nil

	case gradient.RepeatingConic:
		start, period := span(anchors)
		from := sweepStart(params.Angle) + start*math.Pi/180
		b := gg.NewSweepGradientBrush(cx, cy, from).
			SetEndAngle(from + period*math.Pi/180).
			SetExtend(gg.ExtendRepeat)
		addRelative(anchors, start, period, b.AddColorStop)
		return b, nil

	case gradient.RepeatingLinear:
		x0, y0, dx, dy, _ := gradientLine(params.Angle, w, h)
		start, period := span(anchors)
		b := gg.NewLinearGradientBrush(
			x0+dx*start, y0+dy*start,
			x0+dx*(start+period), y0+dy*(start+period),
		).SetExtend(gg.ExtendRepeat)
		addRelative(anchors, start, period, b.AddColorStop)
		return b, nil

	default:
		x0, y0, dx, dy, length := gradientLine(params.Angle, w, h)
		b := gg.NewLinearGradientBrush(x0, y0, x0+dx*length, y0+dy*length)
		for _, a := range anchors {
			b.AddColorStop(a.Offset/100, toRGBA(a.Color))
		}
		return b, nil
	}
}

// gradientLine returns the start point, unit direction and length of the CSS
// gradient line for angle on a w x h box. 0deg points up, 90deg right.
func gradientLine(angle, w, h float64) (x0, y0, dx, dy, length float64) {
	rad := angle * math.Pi / 180
	dx, dy = math.Sin(rad), -math.Cos(rad)
	length = math.Abs(w*dx) + math.Abs(h*dy)
	x0 = w/2 - dx*length/2
	y0 = h/2 - dy*length/2
	return x0, y0, dx, dy, length
}

// sweepStart converts a CSS "from" angle into gg's sweep angle, where 0 points
// right and angles grow clockwise in screen space.
func sweepStart(angle float64) float64 {
	return angle*math.Pi/180 - math.Pi/2
}

// span returns the first anchor offset and the repeat period. A degenerate
// period falls back to 1 so the brush stays well defined.
func span(anchors []gradient.Anchor) (start, period float64) {
	start = anchors[0].Offset
	period = anchors[len(anchors)-1].Offset - start
	if period <= 0 {
		period = 1
	}
	return start, period
}

func addRelative[B any](anchors []gradient.Anchor, start, period float64, add func(float64, gg.RGBA) B) {
	for _, a := range anchors {
		add((a.Offset-start)/period, toRGBA(a.Color))
	}
}

// toRGBA converts a CSS color to gg's float representation. Unparseable
// colors render black, matching the compiler.
func toRGBA(css string) gg.RGBA {
	c, err := color.ParseCSSColor(css)
	if err != nil {
		return gg.RGBA{A: 1}
	}
	return gg.RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: c.A,
	}
}
