package color

import (
	"fmt"
	"math"
)

// HSV is a color in hue/saturation/value form. H is in degrees [0, 360),
// S and V are in [0, 1].
type HSV struct {
	H float64
	S float64
	V float64
}

// HSVToRGB converts a normalized hue (h in [0, 1]), saturation and value to
// 8-bit RGB channels using the six-sector algorithm.
func HSVToRGB(h, s, v float64) (r, g, b uint8) {
	i := int(math.Floor(h * 6))
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var rf, gf, bf float64
	switch ((i % 6) + 6) % 6 {
	case 0:
		rf, gf, bf = v, t, p
	case 1:
		rf, gf, bf = q, v, p
	case 2:
		rf, gf, bf = p, v, t
	case 3:
		rf, gf, bf = p, q, v
	case 4:
		rf, gf, bf = t, p, v
	case 5:
		rf, gf, bf = v, p, q
	}

	return toByte(rf), toByte(gf), toByte(bf)
}

// HSVToHex converts an HSV color (hue in degrees) to "#rrggbb".
func HSVToHex(c HSV) string {
	r, g, b := HSVToRGB(c.H/360, c.S, c.V)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// HexToHSV converts any CSS color string to HSV. Unparseable input is treated
// as black. Hue is rounded to whole degrees.
func HexToHSV(s string) HSV {
	var r, g, b float64
	if c, err := ParseCSSColor(s); err == nil {
		r = float64(c.R) / 255
		g = float64(c.G) / 255
		b = float64(c.B) / 255
	}

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	delta := maxC - minC

	sat := 0.0
	if maxC != 0 {
		sat = delta / maxC
	}

	var h float64
	switch {
	case delta == 0:
		h = 0
	case maxC == r:
		h = math.Mod((g-b)/delta, 6)
	case maxC == g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}

	h = roundHalfUp(h * 60)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}

	return HSV{H: h, S: sat, V: maxC}
}

// toByte scales a [0, 1] channel to [0, 255] with rounding
func toByte(x float64) uint8 {
	v := roundHalfUp(x * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
