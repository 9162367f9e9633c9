package gradgen

import (
	"fmt"
	"math"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/yacobolo/gradgen/internal/color"
	"github.com/yacobolo/gradgen/internal/gradient"
)

// DefinitionsKey is the top-level key holding the gradient list
const DefinitionsKey = "gradients"

// StopDefinition is one color stop as written in a definition file.
// A missing position is spread evenly by list index.
type StopDefinition struct {
	ID       string   `koanf:"id" json:"id,omitempty"`
	Color    string   `koanf:"color" json:"color"`
	Position *float64 `koanf:"position" json:"position,omitempty"`
}

// Definition is one named gradient as written in a definition file.
type Definition struct {
	Name       string           `koanf:"name" json:"name"`
	Type       string           `koanf:"type" json:"type,omitempty"`
	Angle      *float64         `koanf:"angle" json:"angle,omitempty"`
	Smoothness *int             `koanf:"smoothness" json:"smoothness,omitempty"`
	Stops      []StopDefinition `koanf:"stops" json:"stops"`

	// Source locations, filled by LoadDefinitions
	Location      FileLocation            `koanf:"-" json:"-"`
	FieldLocation map[string]FileLocation `koanf:"-" json:"-"`
	StopLocations []StopLocation          `koanf:"-" json:"-"`
}

// StopLocation is where a stop entry and its fields appear in the file.
type StopLocation struct {
	FileLocation
	Fields map[string]FileLocation
}

// DefinitionFile is one parsed definition file.
type DefinitionFile struct {
	Path      string
	Gradients []Definition
	Lines     []string
}

// LoadDefinitions reads the gradient list of a YAML definition file. A file
// without a gradients key yields an empty list.
func LoadDefinitions(path string) (*DefinitionFile, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	var defs []Definition
	if k.Exists(DefinitionsKey) {
		if err := k.UnmarshalWithConf(DefinitionsKey, &defs, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
			return nil, fmt.Errorf("decoding %s in %s: %w", DefinitionsKey, path, err)
		}
	}

	index, err := indexDefinitionFile(path)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", path, err)
	}
	index.attach(defs)

	return &DefinitionFile{Path: path, Gradients: defs, Lines: index.lines}, nil
}

// Lookup returns the gradient named name.
func (f *DefinitionFile) Lookup(name string) (Definition, bool) {
	for _, d := range f.Gradients {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Finding is a problem noticed while resolving a definition. Stop is the
// stop index the finding is about, or -1 for the gradient itself.
type Finding struct {
	Severity    string
	Linter      string
	Text        string
	Field       string
	Stop        int
	Replacement string
}

// Linter names reported in issues
const (
	LinterParse  = "gradparse"
	LinterType   = "gradtype"
	LinterStops  = "gradstops"
	LinterColor  = "gradcolor"
	LinterRange  = "gradrange"
	LinterUnique = "gradunique"
)

// Resolve converts d into compiler input. Colors are normalized to hex where
// they parse and left as written otherwise, so the compiler renders them
// black. Out-of-range numbers are clamped and an unknown type falls back to
// linear. Every such adjustment is reported as a Finding.
func (d Definition) Resolve() ([]gradient.ColorStop, gradient.Params, []Finding) {
	var findings []Finding
	add := func(f Finding) { findings = append(findings, f) }

	params := gradient.DefaultParams()

	if d.Name == "" {
		add(Finding{Severity: SeverityError, Linter: LinterUnique, Text: IssueMissingName, Field: "name", Stop: -1})
	}

	if d.Type != "" {
		t, err := gradient.ParseType(d.Type)
		if err != nil {
			add(Finding{
				Severity: SeverityError, Linter: LinterType, Field: "type", Stop: -1,
				Text:        fmt.Sprintf(IssueUnknownType, d.Type, strings.Join(gradient.TypeNames(), ", ")),
				Replacement: string(gradient.Linear),
			})
		} else {
			params.Type = t
		}
	}

	if d.Angle != nil {
		a := *d.Angle
		switch {
		case math.IsNaN(a):
			add(Finding{Severity: SeverityError, Linter: LinterRange, Field: "angle", Stop: -1, Text: fmt.Sprintf(IssueOutOfRange, "angle", "NaN", gradient.MinAngle, gradient.MaxAngle)})
		case a < gradient.MinAngle || a > gradient.MaxAngle:
			clamped := gradient.ClampAngle(a)
			add(Finding{
				Severity: SeverityWarning, Linter: LinterRange, Field: "angle", Stop: -1,
				Text:        fmt.Sprintf(IssueOutOfRange, "angle", color.FormatNumber(a), gradient.MinAngle, gradient.MaxAngle),
				Replacement: color.FormatNumber(clamped),
			})
			params.Angle = clamped
		default:
			params.Angle = a
		}
		if !params.Type.UsesAngle() {
			add(Finding{Severity: SeverityWarning, Linter: LinterType, Field: "angle", Stop: -1, Text: fmt.Sprintf(IssueUnusedAngle, params.Type)})
		}
	}

	if d.Smoothness != nil {
		s := *d.Smoothness
		clamped := gradient.ClampSmoothness(s)
		if clamped != s {
			add(Finding{
				Severity: SeverityWarning, Linter: LinterRange, Field: "smoothness", Stop: -1,
				Text:        fmt.Sprintf(IssueOutOfRange, "smoothness", fmt.Sprint(s), gradient.MinSmoothness, gradient.MaxSmoothness),
				Replacement: fmt.Sprint(clamped),
			})
		}
		params.Smoothness = clamped
	}

	if n := len(d.Stops); n < gradient.MinStops || n > gradient.MaxStops {
		add(Finding{
			Severity: SeverityError, Linter: LinterStops, Field: "stops", Stop: -1,
			Text: fmt.Sprintf(IssueStopCount, n, gradient.MinStops, gradient.MaxStops),
		})
	}

	// Generated IDs must not collide with any explicit one
	taken := make(map[string]bool, len(d.Stops))
	for _, sd := range d.Stops {
		if sd.ID != "" {
			taken[sd.ID] = true
		}
	}

	stops := make([]gradient.ColorStop, len(d.Stops))
	seenIDs := make(map[string]bool, len(d.Stops))
	for i, sd := range d.Stops {
		stop := gradient.ColorStop{
			ID:    sd.ID,
			Color: sd.Color,
		}
		if stop.ID == "" {
			stop.ID = fallbackStopID(i, taken)
		} else if seenIDs[stop.ID] {
			add(Finding{Severity: SeverityError, Linter: LinterUnique, Field: "id", Stop: i, Text: fmt.Sprintf(IssueDuplicateStopID, stop.ID)})
		}
		seenIDs[stop.ID] = true

		c, err := color.ParseCSSColor(sd.Color)
		switch {
		case err != nil:
			add(Finding{Severity: SeverityError, Linter: LinterColor, Field: "color", Stop: i, Text: fmt.Sprintf(IssueInvalidColor, sd.Color)})
		default:
			stop.Color = c.Hex()
			if c.A < 1 {
				add(Finding{Severity: SeverityWarning, Linter: LinterColor, Field: "color", Stop: i, Text: fmt.Sprintf(IssueColorAlpha, sd.Color), Replacement: c.Hex()})
			}
		}

		switch {
		case sd.Position == nil:
			stop.Position = spreadPosition(i, len(d.Stops))
		case math.IsNaN(*sd.Position):
			add(Finding{Severity: SeverityError, Linter: LinterRange, Field: "position", Stop: i, Text: fmt.Sprintf(IssueOutOfRange, "position", "NaN", gradient.MinPosition, gradient.MaxPosition)})
			stop.Position = spreadPosition(i, len(d.Stops))
		default:
			p := *sd.Position
			stop.Position = gradient.ClampPosition(p)
			if stop.Position != p {
				add(Finding{
					Severity: SeverityWarning, Linter: LinterRange, Field: "position", Stop: i,
					Text:        fmt.Sprintf(IssueOutOfRange, "position", color.FormatNumber(p), gradient.MinPosition, gradient.MaxPosition),
					Replacement: color.FormatNumber(stop.Position),
				})
			}
		}

		stops[i] = stop
	}

	return stops, params, findings
}

// fallbackStopID names the ID-less stop at index i "stop-<i+1>", adding a
// suffix while that name is taken. The chosen name is marked as taken.
func fallbackStopID(i int, taken map[string]bool) string {
	id := fmt.Sprintf("stop-%d", i+1)
	for n := 2; taken[id]; n++ {
		id = fmt.Sprintf("stop-%d-%d", i+1, n)
	}
	taken[id] = true
	return id
}

// Buildable reports whether findings allow the gradient to be emitted. A
// missing name, an unsupported stop count or repeated stop IDs cannot be
// compiled into a rule.
func Buildable(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity != SeverityError {
			continue
		}
		if f.Field == "name" || f.Field == "stops" || f.Field == "id" {
			return false
		}
	}
	return true
}

// spreadPosition places stop i of n evenly between 0 and 100
func spreadPosition(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return math.Floor(float64(i)/float64(n-1)*100 + 0.5)
}

// locate returns the best known location for a finding
func (d Definition) locate(f Finding) FileLocation {
	if f.Stop >= 0 && f.Stop < len(d.StopLocations) {
		s := d.StopLocations[f.Stop]
		if loc, ok := s.Fields[f.Field]; ok {
			return loc
		}
		return s.FileLocation
	}
	if loc, ok := d.FieldLocation[f.Field]; ok {
		return loc
	}
	return d.Location
}
