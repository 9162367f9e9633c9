package color

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToRgba(t *testing.T) {
	tests := []struct {
		name  string
		hex   string
		alpha float64
		want  string
	}{
		{name: "six digits with hash", hex: "#ff5f6d", alpha: 1, want: "rgba(255, 95, 109, 1)"},
		{name: "six digits without hash", hex: "ffc371", alpha: 1, want: "rgba(255, 195, 113, 1)"},
		{name: "uppercase digits", hex: "#00FF7F", alpha: 1, want: "rgba(0, 255, 127, 1)"},
		{name: "shorthand expands", hex: "#abc", alpha: 1, want: "rgba(170, 187, 204, 1)"},
		{name: "surrounding whitespace", hex: "  #000000 ", alpha: 1, want: "rgba(0, 0, 0, 1)"},
		{name: "alpha passed through", hex: "#ffffff", alpha: 0.25, want: "rgba(255, 255, 255, 0.25)"},
		{name: "malformed falls back to black", hex: "notacolor", alpha: 1, want: "rgba(0, 0, 0, 1)"},
		{name: "wrong length", hex: "#ff5f6", alpha: 1, want: "rgba(0, 0, 0, 1)"},
		{name: "empty", hex: "", alpha: 0.5, want: "rgba(0, 0, 0, 0.5)"},
		{name: "named colors are not hex", hex: "red", alpha: 1, want: "rgba(0, 0, 0, 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HexToRgba(tt.hex, tt.alpha))
		})
	}
}

func TestHexToRgbaRoundTripsChannels(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		hex := RandomHex(rng)
		parsed, err := ParseCSSColor(HexToRgba(hex, 1))
		require.NoError(t, err)
		assert.Equal(t, hex, parsed.Hex())
	}
}

func TestInterpolateColor(t *testing.T) {
	tests := []struct {
		name   string
		a, b   string
		factor float64
		want   string
	}{
		{name: "factor zero returns first", a: "#ff0000", b: "#0000ff", factor: 0, want: "rgba(255, 0, 0, 1)"},
		{name: "factor one returns second", a: "#ff0000", b: "#0000ff", factor: 1, want: "rgba(0, 0, 255, 1)"},
		{name: "midpoint rounds half up", a: "#ff0000", b: "#0000ff", factor: 0.5, want: "rgba(128, 0, 128, 1)"},
		{name: "rgba inputs", a: "rgba(0, 0, 0, 0)", b: "rgba(200, 100, 50, 1)", factor: 0.25, want: "rgba(50, 25, 13, 0.25)"},
		{name: "rgb without alpha defaults to one", a: "rgb(10, 20, 30)", b: "rgba(10, 20, 30, 0)", factor: 0.5, want: "rgba(10, 20, 30, 0.5)"},
		{name: "mixed hex and rgba", a: "#000", b: "rgba(255, 255, 255, 1)", factor: 0.2, want: "rgba(51, 51, 51, 1)"},
		{name: "malformed side degrades to black", a: "notacolor", b: "#ffffff", factor: 0.5, want: "rgba(128, 128, 128, 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterpolateColor(tt.a, tt.b, tt.factor))
		})
	}
}

func TestInterpolateColorWithItself(t *testing.T) {
	colors := []string{"#ff5f6d", "#ffc371", "#123456", "rgba(10, 20, 30, 0.5)"}
	factors := []float64{0, 0.1, 0.33, 0.5, 0.9, 1}

	for _, c := range colors {
		want := InterpolateColor(c, c, 0)
		for _, f := range factors {
			assert.Equal(t, want, InterpolateColor(c, c, f), "color %s factor %v", c, f)
		}
	}
}

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, v float64
		want    [3]uint8
	}{
		{name: "red", h: 0, s: 1, v: 1, want: [3]uint8{255, 0, 0}},
		{name: "green", h: 1.0 / 3, s: 1, v: 1, want: [3]uint8{0, 255, 0}},
		{name: "blue", h: 2.0 / 3, s: 1, v: 1, want: [3]uint8{0, 0, 255}},
		{name: "yellow", h: 1.0 / 6, s: 1, v: 1, want: [3]uint8{255, 255, 0}},
		{name: "full turn wraps to red", h: 1, s: 1, v: 1, want: [3]uint8{255, 0, 0}},
		{name: "white", h: 0.4, s: 0, v: 1, want: [3]uint8{255, 255, 255}},
		{name: "black", h: 0.4, s: 1, v: 0, want: [3]uint8{0, 0, 0}},
		{name: "half value gray", h: 0, s: 0, v: 0.5, want: [3]uint8{128, 128, 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := HSVToRGB(tt.h, tt.s, tt.v)
			assert.Equal(t, tt.want, [3]uint8{r, g, b})
		})
	}
}

func TestHexToHSV(t *testing.T) {
	tests := []struct {
		input string
		want  HSV
	}{
		{input: "#ff0000", want: HSV{H: 0, S: 1, V: 1}},
		{input: "#00ff00", want: HSV{H: 120, S: 1, V: 1}},
		{input: "#0000ff", want: HSV{H: 240, S: 1, V: 1}},
		{input: "#ff00ff", want: HSV{H: 300, S: 1, V: 1}},
		{input: "#ffffff", want: HSV{H: 0, S: 0, V: 1}},
		{input: "rgb(0, 0, 255)", want: HSV{H: 240, S: 1, V: 1}},
		{input: "blue", want: HSV{H: 240, S: 1, V: 1}},
		{input: "notacolor", want: HSV{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := HexToHSV(tt.input)
			assert.InDelta(t, tt.want.H, got.H, 1e-9)
			assert.InDelta(t, tt.want.S, got.S, 1e-9)
			assert.InDelta(t, tt.want.V, got.V, 1e-9)
			assert.GreaterOrEqual(t, got.H, 0.0)
			assert.Less(t, got.H, 360.0)
		})
	}
}

func TestHSVToHexRoundTrip(t *testing.T) {
	for _, hex := range []string{"#ff0000", "#00ff00", "#0000ff", "#ffffff", "#000000", "#ffff00"} {
		assert.Equal(t, hex, HSVToHex(HexToHSV(hex)), "round trip %s", hex)
	}
}

func TestParseCSSColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RGBA
		wantErr bool
	}{
		{name: "hex6", input: "#ff5f6d", want: RGBA{R: 255, G: 95, B: 109, A: 1}},
		{name: "hex3", input: "#f00", want: RGBA{R: 255, A: 1}},
		{name: "bare hex", input: "00ff00", want: RGBA{G: 255, A: 1}},
		{name: "hex8 alpha", input: "#0000ff00", want: RGBA{B: 255, A: 0}},
		{name: "hex4 alpha", input: "#000f", want: RGBA{A: 1}},
		{name: "uppercase hex", input: "#FFC371", want: RGBA{R: 255, G: 195, B: 113, A: 1}},
		{name: "rgb commas", input: "rgb(255, 0, 0)", want: RGBA{R: 255, A: 1}},
		{name: "rgba commas", input: "rgba(0, 0, 255, 0.5)", want: RGBA{B: 255, A: 0.5}},
		{name: "rgb space syntax with slash alpha", input: "rgb(100% 0% 0% / 50%)", want: RGBA{R: 255, A: 0.5}},
		{name: "rgb clamps channels", input: "rgb(300, -5, 0)", want: RGBA{R: 255, A: 1}},
		{name: "hsl", input: "hsl(120, 100%, 50%)", want: RGBA{G: 255, A: 1}},
		{name: "hsl degrees", input: "hsl(0deg 100% 50%)", want: RGBA{R: 255, A: 1}},
		{name: "hsla turn", input: "hsla(0turn, 0%, 100%, 0.25)", want: RGBA{R: 255, G: 255, B: 255, A: 0.25}},
		{name: "named", input: "red", want: RGBA{R: 255, A: 1}},
		{name: "named mixed case", input: "  Blue ", want: RGBA{B: 255, A: 1}},
		{name: "transparent", input: "transparent", want: RGBA{}},
		{name: "unknown name", input: "notacolor", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "bad hex length", input: "#12345", wantErr: true},
		{name: "unterminated function", input: "rgb(1, 2, 3", wantErr: true},
		{name: "wrong argument count", input: "rgb(1, 2)", wantErr: true},
		{name: "unsupported function", input: "lab(50% 40 59)", wantErr: true},
		{name: "trailing garbage", input: "#fff red", wantErr: true},
		{name: "unknown hue unit", input: "hsl(1foo, 50%, 50%)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCSSColor(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRGBAFormatting(t *testing.T) {
	c := RGBA{R: 255, G: 95, B: 109, A: 1}
	assert.Equal(t, "rgba(255, 95, 109, 1)", c.String())
	assert.Equal(t, "#ff5f6d", c.Hex())

	assert.Equal(t, "rgba(0, 0, 0, 0.5)", RGBA{A: 0.5}.String())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "100", FormatNumber(100))
	assert.Equal(t, "0.5", FormatNumber(0.5))
	assert.Equal(t, "33.333333333333336", FormatNumber(100.0/3))
}

func TestRandomHex(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 50; i++ {
		hex := RandomHex(rng)
		assert.Len(t, hex, 7)
		_, err := ParseCSSColor(hex)
		assert.NoError(t, err)
	}
}
