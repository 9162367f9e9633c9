// Package color converts between the color notations used by the gradient
// compiler: hex strings, rgba() strings, HSV triples and arbitrary CSS colors.
package color

import (
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

var (
	// hexPattern matches a 6-digit hex color without the leading '#'
	hexPattern = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

	// rgbaPattern captures r, g, b and the optional alpha of an rgb()/rgba() string
	rgbaPattern = regexp.MustCompile(`rgba?\((\d+),\s*(\d+),\s*(\d+)(?:,\s*([0-9.]+))?\)`)
)

// RGBA is a color with 8-bit channels and a fractional alpha in [0, 1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// String renders the color as a CSS rgba() value: "rgba(255, 95, 109, 1)"
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, FormatNumber(c.A))
}

// Hex renders the color as "#rrggbb", dropping alpha.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexToRgba converts a hex color ("#ff5f6d", "ff5f6d", "#abc") to an rgba()
// string with the given alpha. Anything that is not a valid 3 or 6 digit hex
// color yields opaque-black channels: "rgba(0, 0, 0, <alpha>)".
func HexToRgba(hex string, alpha float64) string {
	clean := strings.Replace(strings.TrimSpace(hex), "#", "", 1)

	// Expand shorthand: abc -> aabbcc
	if len(clean) == 3 {
		var b strings.Builder
		for _, ch := range clean {
			b.WriteRune(ch)
			b.WriteRune(ch)
		}
		clean = b.String()
	}

	if !hexPattern.MatchString(clean) {
		return fmt.Sprintf("rgba(0, 0, 0, %s)", FormatNumber(alpha))
	}

	r, _ := strconv.ParseUint(clean[0:2], 16, 8)
	g, _ := strconv.ParseUint(clean[2:4], 16, 8)
	b, _ := strconv.ParseUint(clean[4:6], 16, 8)

	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, FormatNumber(alpha))
}

// channels holds the parsed components of an rgba() string. Channel values
// are kept unclamped since the regular expression admits any digit run.
type channels struct {
	r, g, b float64
	a       float64
}

// parseRgbaString extracts channels from an rgb()/rgba() string
func parseRgbaString(s string) (channels, bool) {
	m := rgbaPattern.FindStringSubmatch(s)
	if m == nil {
		return channels{}, false
	}

	r, _ := strconv.ParseFloat(m[1], 64)
	g, _ := strconv.ParseFloat(m[2], 64)
	b, _ := strconv.ParseFloat(m[3], 64)

	a := 1.0
	if m[4] != "" {
		parsed, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return channels{}, false
		}
		a = parsed
	}

	return channels{r: r, g: g, b: b, a: a}, true
}

// resolveChannels parses an rgba string, falling back to hex normalization
func resolveChannels(s string) (channels, bool) {
	if c, ok := parseRgbaString(s); ok {
		return c, true
	}
	return parseRgbaString(HexToRgba(s, 1))
}

// InterpolateColor blends two colors, each given as an rgba()/rgb() string or
// a hex string. factor 0 yields a, factor 1 yields b. Color channels are
// rounded to integers, alpha is interpolated without rounding.
//
// If either side cannot be parsed even after hex normalization, that side's
// original string is returned unchanged.
func InterpolateColor(a, b string, factor float64) string {
	c1, ok := resolveChannels(a)
	if !ok {
		return a
	}
	c2, ok := resolveChannels(b)
	if !ok {
		return b
	}

	r := roundHalfUp(c1.r + factor*(c2.r-c1.r))
	g := roundHalfUp(c1.g + factor*(c2.g-c1.g))
	bl := roundHalfUp(c1.b + factor*(c2.b-c1.b))
	alpha := c1.a + factor*(c2.a-c1.a)

	return fmt.Sprintf("rgba(%s, %s, %s, %s)",
		FormatNumber(r), FormatNumber(g), FormatNumber(bl), FormatNumber(alpha))
}

// RandomHex returns a random "#rrggbb" color drawn from rng.
func RandomHex(rng *rand.Rand) string {
	return fmt.Sprintf("#%06x", rng.IntN(0xffffff))
}

// FormatNumber renders f in its shortest round-trip decimal form: 1, 0.5,
// 33.333333333333336. Negative zero renders as 0.
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// roundHalfUp rounds x to the nearest integer, with halves rounding towards
// positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
