// Package gradient compiles an ordered list of color stops plus gradient
// parameters into CSS gradient text, and holds the editable gradient state
// that interactive front ends mutate.
package gradient

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Type identifies one of the six CSS gradient functions
type Type string

// Gradient types
const (
	Linear          Type = "linear"
	Radial          Type = "radial"
	Conic           Type = "conic"
	RepeatingLinear Type = "repeating-linear"
	RepeatingRadial Type = "repeating-radial"
	RepeatingConic  Type = "repeating-conic"
)

// Types lists every gradient type in display order.
var Types = []Type{Linear, Radial, Conic, RepeatingLinear, RepeatingRadial, RepeatingConic}

// Limits on the editable state
const (
	MinStops      = 2
	MaxStops      = 5
	MinPosition   = 0.0
	MaxPosition   = 100.0
	MinAngle      = 0.0
	MaxAngle      = 360.0
	MinSmoothness = 0
	MaxSmoothness = 100
)

// Errors returned by editor mutations
var (
	ErrTooManyStops    = fmt.Errorf("gradient already has the maximum of %d color stops", MaxStops)
	ErrTooFewStops     = fmt.Errorf("gradient needs at least %d color stops", MinStops)
	ErrUnknownStop     = errors.New("unknown color stop")
	ErrDuplicateStop   = errors.New("duplicate color stop id")
	ErrInvalidPosition = errors.New("invalid stop position")
	ErrUnknownType     = errors.New("unknown gradient type")
)

// ParseType resolves a type name. The "-gradient" suffix is accepted, so
// "repeating-conic-gradient" parses as RepeatingConic.
func ParseType(s string) (Type, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "-gradient")
	for _, t := range Types {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownType, s, strings.Join(TypeNames(), ", "))
}

// TypeNames returns the names of all gradient types.
func TypeNames() []string {
	names := make([]string, len(Types))
	for i, t := range Types {
		names[i] = string(t)
	}
	return names
}

// IsRepeating reports whether t is one of the repeating- variants.
func (t Type) IsRepeating() bool {
	return strings.HasPrefix(string(t), "repeating-")
}

// UsesAngle reports whether the angle parameter affects t's output.
// Radial gradients always render as "circle" and ignore it.
func (t Type) UsesAngle() bool {
	return t != Radial && t != RepeatingRadial
}

// IsConic reports whether t is a conic or repeating-conic gradient.
func (t Type) IsConic() bool {
	return t == Conic || t == RepeatingConic
}

// IsRadial reports whether t is a radial or repeating-radial gradient.
func (t Type) IsRadial() bool {
	return t == Radial || t == RepeatingRadial
}

// FunctionName returns the CSS function name, e.g. "repeating-linear-gradient".
func (t Type) FunctionName() string {
	return string(t) + "-gradient"
}

// Next returns the type after t in Types, wrapping around.
func (t Type) Next() Type {
	for i, candidate := range Types {
		if candidate == t {
			return Types[(i+1)%len(Types)]
		}
	}
	return Linear
}

// ColorStop is a color anchored at a percentage position along the gradient.
type ColorStop struct {
	ID       string  `json:"id" yaml:"id"`
	Color    string  `json:"color" yaml:"color"`
	Position float64 `json:"position" yaml:"position"`
}

// Params are the scalar gradient settings.
type Params struct {
	Type       Type    `json:"type" yaml:"type"`
	Angle      float64 `json:"angle" yaml:"angle"`
	Smoothness int     `json:"smoothness" yaml:"smoothness"`
}

// Style maps camelCase CSS property names to values, the form a display
// surface applies directly as inline styling.
type Style map[string]string

// BackgroundImageKey is the Style key holding the single-line gradient.
const BackgroundImageKey = "backgroundImage"

// BackgroundImage returns the backgroundImage property.
func (s Style) BackgroundImage() string {
	return s[BackgroundImageKey]
}

// Declarations renders the style as CSS declarations, one per line, sorted
// by property name: "background-image: linear-gradient(...);"
func (s Style) Declarations() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s;", kebabCase(k), s[k])
	}
	return b.String()
}

// kebabCase converts "backgroundImage" to "background-image"
func kebabCase(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Result is everything derived from one compilation.
type Result struct {
	// CSS is the single-line gradient expression used as the style value.
	CSS string `json:"css"`
	// Pretty is the newline-formatted gradient expression.
	Pretty string `json:"pretty"`
	// Declaration is "background-image: <Pretty>;".
	Declaration string `json:"declaration"`
	// Style always carries backgroundImage.
	Style Style `json:"style"`
	// Stops are the emitted stops after sorting and smoothing, colors in rgba().
	Stops []ColorStop `json:"stops"`
	// TileSize is the repeat length: px for repeating linear/radial, degrees
	// for repeating conic, 0 otherwise.
	TileSize float64 `json:"tileSize,omitempty"`
}

// DefaultStops returns the initial two-stop gradient.
func DefaultStops() []ColorStop {
	return []ColorStop{
		{ID: "stop-1", Color: "#ff5f6d", Position: 0},
		{ID: "stop-2", Color: "#ffc371", Position: 100},
	}
}

// DefaultParams returns linear at 90 degrees with no smoothing.
func DefaultParams() Params {
	return Params{Type: Linear, Angle: 90, Smoothness: 0}
}

// Default compiles the default stops and params.
func Default() Result {
	return Compile(DefaultStops(), DefaultParams())
}
