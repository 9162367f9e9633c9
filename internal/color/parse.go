package color

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned when a string is not a supported CSS color
var ErrInvalidColor = errors.New("invalid CSS color")

// bareHexPattern matches hex colors written without the leading '#'
var bareHexPattern = regexp.MustCompile(`^([0-9a-f]{3}|[0-9a-f]{4}|[0-9a-f]{6}|[0-9a-f]{8})$`)

// argument is a single significant token inside a color function
type argument struct {
	kind css.TokenType
	text string
}

// ParseCSSColor resolves a CSS color string to RGBA.
//
// Supported forms:
//
//	#rgb #rgba #rrggbb #rrggbbaa (the '#' is optional)
//	rgb(255, 0, 0)  rgba(255, 0, 0, 0.5)  rgb(100% 0% 0% / 50%)
//	hsl(120, 100%, 50%)  hsla(0.5turn, 50%, 50%, 1)
//	red, cornflowerblue, transparent (CSS named colors)
func ParseCSSColor(s string) (RGBA, error) {
	input := strings.ToLower(strings.TrimSpace(s))
	if input == "" {
		return RGBA{}, fmt.Errorf("%w: empty string", ErrInvalidColor)
	}
	if bareHexPattern.MatchString(input) {
		input = "#" + input
	}

	c, err := parseColorTokens(css.NewLexer(parse.NewInputString(input)))
	if err != nil {
		return RGBA{}, fmt.Errorf("%w %q: %s", ErrInvalidColor, s, err.Error())
	}
	return c, nil
}

// parseColorTokens reads exactly one color value from the lexer
func parseColorTokens(lexer *css.Lexer) (RGBA, error) {
	tt, text := nextSignificant(lexer)

	var (
		c   RGBA
		err error
	)

	switch tt {
	case css.HashToken:
		c, err = parseHex(string(text[1:]))
	case css.IdentToken:
		c, err = parseNamed(string(text))
	case css.FunctionToken:
		name := strings.TrimSuffix(string(text), "(")
		args, argErr := readArguments(lexer)
		if argErr != nil {
			return RGBA{}, argErr
		}
		switch name {
		case "rgb", "rgba":
			c, err = parseRGBFunction(args)
		case "hsl", "hsla":
			c, err = parseHSLFunction(args)
		default:
			err = fmt.Errorf("unsupported color function %s()", name)
		}
	default:
		err = fmt.Errorf("unexpected token %q", string(text))
	}
	if err != nil {
		return RGBA{}, err
	}

	// Only whitespace may follow the color
	if tt, text := nextSignificant(lexer); tt != css.ErrorToken {
		return RGBA{}, fmt.Errorf("unexpected trailing %q", string(text))
	}

	return c, nil
}

// nextSignificant returns the next token that is not whitespace or a comment
func nextSignificant(lexer *css.Lexer) (css.TokenType, []byte) {
	for {
		tt, text := lexer.Next()
		if tt != css.WhitespaceToken && tt != css.CommentToken {
			return tt, text
		}
	}
}

// readArguments collects numeric tokens up to the closing parenthesis.
// Commas and the slash alpha separator are dropped: arguments are positional.
func readArguments(lexer *css.Lexer) ([]argument, error) {
	var args []argument
	for {
		tt, text := nextSignificant(lexer)
		switch tt {
		case css.ErrorToken:
			return nil, errors.New("unterminated color function")
		case css.RightParenthesisToken:
			return args, nil
		case css.CommaToken:
			continue
		case css.DelimToken:
			if string(text) != "/" {
				return nil, fmt.Errorf("unexpected %q in color function", string(text))
			}
		case css.NumberToken, css.PercentageToken, css.DimensionToken:
			args = append(args, argument{kind: tt, text: string(text)})
		default:
			return nil, fmt.Errorf("unexpected %q in color function", string(text))
		}
	}
}

// parseHex decodes 3, 4, 6 or 8 hex digits
func parseHex(digits string) (RGBA, error) {
	switch len(digits) {
	case 3, 4:
		var b strings.Builder
		for _, ch := range digits {
			b.WriteRune(ch)
			b.WriteRune(ch)
		}
		digits = b.String()
	case 6, 8:
	default:
		return RGBA{}, fmt.Errorf("hex color must have 3, 4, 6 or 8 digits, got %d", len(digits))
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("bad hex digits %q", digits)
	}

	if len(digits) == 6 {
		return RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 1}, nil
	}
	return RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: float64(uint8(v)) / 255,
	}, nil
}

// parseNamed resolves CSS named colors
func parseNamed(name string) (RGBA, error) {
	if name == "transparent" {
		return RGBA{}, nil
	}
	named, ok := colornames.Map[name]
	if !ok {
		return RGBA{}, fmt.Errorf("unknown color name %q", name)
	}
	return RGBA{R: named.R, G: named.G, B: named.B, A: float64(named.A) / 255}, nil
}

// parseRGBFunction handles rgb() and rgba()
func parseRGBFunction(args []argument) (RGBA, error) {
	if len(args) != 3 && len(args) != 4 {
		return RGBA{}, fmt.Errorf("rgb() takes 3 or 4 arguments, got %d", len(args))
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := channelValue(args[i])
		if err != nil {
			return RGBA{}, err
		}
		ch[i] = v
	}

	alpha := 1.0
	if len(args) == 4 {
		a, err := alphaValue(args[3])
		if err != nil {
			return RGBA{}, err
		}
		alpha = a
	}

	return RGBA{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
}

// parseHSLFunction handles hsl() and hsla()
func parseHSLFunction(args []argument) (RGBA, error) {
	if len(args) != 3 && len(args) != 4 {
		return RGBA{}, fmt.Errorf("hsl() takes 3 or 4 arguments, got %d", len(args))
	}

	hue, err := hueValue(args[0])
	if err != nil {
		return RGBA{}, err
	}
	sat, err := fractionValue(args[1])
	if err != nil {
		return RGBA{}, err
	}
	light, err := fractionValue(args[2])
	if err != nil {
		return RGBA{}, err
	}

	alpha := 1.0
	if len(args) == 4 {
		if alpha, err = alphaValue(args[3]); err != nil {
			return RGBA{}, err
		}
	}

	r, g, b := colorful.Hsl(hue, sat, light).Clamped().RGB255()
	return RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// channelValue converts a number (0-255) or percentage to an 8-bit channel
func channelValue(arg argument) (uint8, error) {
	switch arg.kind {
	case css.NumberToken:
		v, err := strconv.ParseFloat(arg.text, 64)
		if err != nil {
			return 0, fmt.Errorf("bad channel %q", arg.text)
		}
		return uint8(clamp(roundHalfUp(v), 0, 255)), nil
	case css.PercentageToken:
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg.text, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("bad channel %q", arg.text)
		}
		return uint8(clamp(roundHalfUp(v/100*255), 0, 255)), nil
	}
	return 0, fmt.Errorf("bad channel %q", arg.text)
}

// alphaValue converts a number or percentage to alpha in [0, 1]
func alphaValue(arg argument) (float64, error) {
	v, err := fractionValue(arg)
	if err != nil {
		return 0, fmt.Errorf("bad alpha %q", arg.text)
	}
	return v, nil
}

// fractionValue converts "50%" or "0.5" to 0.5, clamped to [0, 1]
func fractionValue(arg argument) (float64, error) {
	switch arg.kind {
	case css.NumberToken:
		v, err := strconv.ParseFloat(arg.text, 64)
		if err != nil {
			return 0, fmt.Errorf("bad number %q", arg.text)
		}
		return clamp(v, 0, 1), nil
	case css.PercentageToken:
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg.text, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("bad percentage %q", arg.text)
		}
		return clamp(v/100, 0, 1), nil
	}
	return 0, fmt.Errorf("expected number or percentage, got %q", arg.text)
}

// hueValue converts a hue argument to degrees in [0, 360)
func hueValue(arg argument) (float64, error) {
	var deg float64
	switch arg.kind {
	case css.NumberToken:
		v, err := strconv.ParseFloat(arg.text, 64)
		if err != nil {
			return 0, fmt.Errorf("bad hue %q", arg.text)
		}
		deg = v
	case css.DimensionToken:
		i := strings.LastIndexAny(arg.text, "0123456789.")
		if i < 0 {
			return 0, fmt.Errorf("bad hue %q", arg.text)
		}
		v, err := strconv.ParseFloat(arg.text[:i+1], 64)
		if err != nil {
			return 0, fmt.Errorf("bad hue %q", arg.text)
		}
		switch unit := arg.text[i+1:]; unit {
		case "deg":
			deg = v
		case "rad":
			deg = v * 180 / math.Pi
		case "grad":
			deg = v * 0.9
		case "turn":
			deg = v * 360
		default:
			return 0, fmt.Errorf("unknown hue unit %q", unit)
		}
	default:
		return 0, fmt.Errorf("bad hue %q", arg.text)
	}

	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
