package gradient

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/yacobolo/gradgen/internal/color"
)

// collapsePattern matches a newline and the indentation that follows it
var collapsePattern = regexp.MustCompile(`\n\s*`)

// Compile turns stops and params into CSS. It never fails: colors that are
// not hex fall back to black, smoothness is clamped to 0..100, fewer than
// two stops skip smoothing, and an empty list yields a gradient with only
// its leading argument.
//
// The input slice is not modified.
func Compile(stops []ColorStop, params Params) Result {
	if !validType(params.Type) {
		params.Type = Linear
	}
	params.Smoothness = ClampSmoothness(params.Smoothness)

	sorted := SortStops(stops)
	expanded := Expand(sorted, params.Smoothness)
	tile := TileSize(params)

	args := make([]string, 0, len(expanded)+2)
	args = append(args, leadingArgument(params))
	args = append(args, stopArguments(expanded, params.Type, tile)...)

	pretty := params.Type.FunctionName() + "(\n  " + strings.Join(args, ",\n  ") + "\n)"
	single := collapsePattern.ReplaceAllString(pretty, " ")

	return Result{
		CSS:         single,
		Pretty:      pretty,
		Declaration: "background-image: " + pretty + ";",
		Style:       Style{BackgroundImageKey: single},
		Stops:       expanded,
		TileSize:    tile,
	}
}

// SortStops returns a copy of stops ordered by ascending position. Stops
// sharing a position keep their relative order.
func SortStops(stops []ColorStop) []ColorStop {
	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}

// StopsToAdd is the number of synthetic stops inserted between each pair of
// adjacent stops at the given smoothness.
func StopsToAdd(smoothness int) int {
	if smoothness <= 0 {
		return 0
	}
	return int(math.Floor(math.Pow(float64(smoothness)/10, 1.5) + 1 + 0.5))
}

// Expand converts sorted stops to rgba() colors and, when smoothness is
// positive, inserts interpolated stops between every adjacent pair.
// Synthetic stops get IDs of the form "intermediate-<pair>-<j>".
func Expand(sorted []ColorStop, smoothness int) []ColorStop {
	if smoothness <= 0 || len(sorted) < 2 {
		out := make([]ColorStop, len(sorted))
		for i, s := range sorted {
			out[i] = ColorStop{ID: s.ID, Color: color.HexToRgba(s.Color, 1), Position: s.Position}
		}
		return out
	}

	n := StopsToAdd(smoothness)
	out := make([]ColorStop, 0, len(sorted)+(len(sorted)-1)*n)

	for i := 0; i < len(sorted)-1; i++ {
		current, next := sorted[i], sorted[i+1]
		c1 := color.HexToRgba(current.Color, 1)
		c2 := color.HexToRgba(next.Color, 1)

		out = append(out, ColorStop{ID: current.ID, Color: c1, Position: current.Position})

		for j := 1; j <= n; j++ {
			factor := float64(j) / float64(n+1)
			out = append(out, ColorStop{
				ID:       fmt.Sprintf("intermediate-%d-%d", i, j),
				Color:    color.InterpolateColor(c1, c2, factor),
				Position: current.Position + factor*(next.Position-current.Position),
			})
		}

		if i == len(sorted)-2 {
			out = append(out, ColorStop{ID: next.ID, Color: c2, Position: next.Position})
		}
	}

	return out
}

// TileSize returns the repeat length for repeating types: px for linear and
// radial, degrees per segment for conic. Non-repeating types return 0.
func TileSize(params Params) float64 {
	if !params.Type.IsRepeating() {
		return 0
	}
	s := float64(params.Smoothness)
	if params.Type.IsConic() {
		return math.Max(5, 30-s/4)
	}
	return math.Max(10, 100-s)
}

// leadingArgument is the first function argument: angle, shape or start angle
func leadingArgument(params Params) string {
	angle := color.FormatNumber(params.Angle) + "deg"
	switch {
	case params.Type.IsRadial():
		return "circle"
	case params.Type.IsConic():
		return "from " + angle
	default:
		return angle
	}
}

// stopArguments renders the color stop list for t
func stopArguments(stops []ColorStop, t Type, tile float64) []string {
	args := make([]string, 0, len(stops)+1)

	switch {
	case t == RepeatingConic:
		wedge := 0.0
		if len(stops) > 0 {
			wedge = tile / float64(len(stops))
		}
		for _, s := range stops {
			start := s.Position / 100 * tile
			args = append(args, fmt.Sprintf("%s %sdeg %sdeg",
				s.Color, color.FormatNumber(start), color.FormatNumber(start+wedge)))
		}

	case t.IsRepeating():
		for _, s := range stops {
			args = append(args, fmt.Sprintf("%s %spx", s.Color, color.FormatNumber(s.Position*tile/100)))
		}
		if len(stops) > 0 {
			args = append(args, fmt.Sprintf("%s %spx", stops[0].Color, color.FormatNumber(tile)))
		}

	default:
		for _, s := range stops {
			args = append(args, fmt.Sprintf("%s %s%%", s.Color, color.FormatNumber(s.Position)))
		}
	}

	return args
}

// Anchor is one color position along the rendered gradient line. Offsets are
// percent for non-repeating types, px for repeating linear and radial, and
// degrees for repeating conic.
type Anchor struct {
	Color  string
	Offset float64
}

// Anchors lists the positions emitted into the CSS for already expanded
// stops, in order. Repeating linear and radial gradients include the closing
// stop at the tile size; repeating conic gradients produce a start and end
// anchor for every wedge.
func Anchors(stops []ColorStop, t Type, tile float64) []Anchor {
	anchors := make([]Anchor, 0, 2*len(stops)+1)

	switch {
	case t == RepeatingConic:
		if len(stops) == 0 {
			return anchors
		}
		wedge := tile / float64(len(stops))
		for _, s := range stops {
			start := s.Position / 100 * tile
			anchors = append(anchors, Anchor{s.Color, start}, Anchor{s.Color, start + wedge})
		}

	case t.IsRepeating():
		for _, s := range stops {
			anchors = append(anchors, Anchor{s.Color, s.Position * tile / 100})
		}
		if len(stops) > 0 {
			anchors = append(anchors, Anchor{stops[0].Color, tile})
		}

	default:
		for _, s := range stops {
			anchors = append(anchors, Anchor{s.Color, s.Position})
		}
	}

	return anchors
}

func validType(t Type) bool {
	for _, candidate := range Types {
		if candidate == t {
			return true
		}
	}
	return false
}
