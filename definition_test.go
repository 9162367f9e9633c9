package gradgen

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/gradgen/internal/gradient"
)

func ptr[T any](v T) *T { return &v }

func TestLoadDefinitions(t *testing.T) {
	path := writeFile(t, t.TempDir(), "brand.yaml", brandYAML)

	f, err := LoadDefinitions(path)
	require.NoError(t, err)

	require.Len(t, f.Gradients, 2)
	assert.Equal(t, path, f.Path)
	assert.Len(t, f.Lines, 16)

	sunset := f.Gradients[0]
	assert.Equal(t, "sunset", sunset.Name)
	assert.Equal(t, "linear", sunset.Type)
	require.NotNil(t, sunset.Angle)
	assert.Equal(t, float64(400), *sunset.Angle)
	assert.Nil(t, sunset.Smoothness)
	require.Len(t, sunset.Stops, 2)
	assert.Equal(t, "end", sunset.Stops[1].ID)
	assert.Equal(t, "nope", sunset.Stops[1].Color)
	assert.Equal(t, 3, sunset.Location.Line)

	ocean, ok := f.Lookup("ocean")
	require.True(t, ok)
	assert.Nil(t, ocean.Stops[0].Position)

	_, ok = f.Lookup("missing")
	assert.False(t, ok)
}

func TestLoadDefinitionsWithoutGradients(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "version: 1\n")

	f, err := LoadDefinitions(path)
	require.NoError(t, err)
	assert.Empty(t, f.Gradients)
}

func TestLoadDefinitionsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDefinitions(dir + "/missing.yaml")
	require.Error(t, err)

	path := writeFile(t, dir, "broken.yaml", "gradients: [\n")
	_, err = LoadDefinitions(path)
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	twoStops := []StopDefinition{
		{Color: "#ff0000", Position: ptr(0.0)},
		{Color: "#0000ff", Position: ptr(100.0)},
	}

	tests := []struct {
		name        string
		def         Definition
		wantParams  gradient.Params
		wantLinters []string
		buildable   bool
	}{
		{
			name:       "minimal",
			def:        Definition{Name: "a", Stops: twoStops},
			wantParams: gradient.DefaultParams(),
			buildable:  true,
		},
		{
			name:        "missing name",
			def:         Definition{Stops: twoStops},
			wantParams:  gradient.DefaultParams(),
			wantLinters: []string{LinterUnique},
			buildable:   false,
		},
		{
			name:        "unknown type falls back to linear",
			def:         Definition{Name: "a", Type: "spiral", Stops: twoStops},
			wantParams:  gradient.DefaultParams(),
			wantLinters: []string{LinterType},
			buildable:   true,
		},
		{
			name:        "angle clamped",
			def:         Definition{Name: "a", Angle: ptr(-10.0), Stops: twoStops},
			wantParams:  gradient.Params{Type: gradient.Linear, Angle: 0},
			wantLinters: []string{LinterRange},
			buildable:   true,
		},
		{
			name:        "angle on radial",
			def:         Definition{Name: "a", Type: "radial-gradient", Angle: ptr(45.0), Stops: twoStops},
			wantParams:  gradient.Params{Type: gradient.Radial, Angle: 45},
			wantLinters: []string{LinterType},
			buildable:   true,
		},
		{
			name:        "smoothness clamped",
			def:         Definition{Name: "a", Type: "repeating-conic", Smoothness: ptr(150), Stops: twoStops},
			wantParams:  gradient.Params{Type: gradient.RepeatingConic, Angle: 90, Smoothness: 100},
			wantLinters: []string{LinterRange},
			buildable:   true,
		},
		{
			name:        "too few stops",
			def:         Definition{Name: "a", Stops: twoStops[:1]},
			wantParams:  gradient.DefaultParams(),
			wantLinters: []string{LinterStops},
			buildable:   false,
		},
		{
			name: "duplicate stop id",
			def: Definition{Name: "a", Stops: []StopDefinition{
				{ID: "x", Color: "#ff0000", Position: ptr(0.0)},
				{ID: "x", Color: "#0000ff", Position: ptr(100.0)},
			}},
			wantParams:  gradient.DefaultParams(),
			wantLinters: []string{LinterUnique},
			buildable:   false,
		},
		{
			name: "NaN angle",
			def:  Definition{Name: "a", Angle: ptr(math.NaN()), Stops: twoStops},
			// angle stays at its default
			wantParams:  gradient.DefaultParams(),
			wantLinters: []string{LinterRange},
			buildable:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, params, findings := tt.def.Resolve()

			assert.Equal(t, tt.wantParams, params)

			var linters []string
			for _, f := range findings {
				linters = append(linters, f.Linter)
			}
			assert.Equal(t, tt.wantLinters, linters)
			assert.Equal(t, tt.buildable, Buildable(findings))
		})
	}
}

func TestResolveStops(t *testing.T) {
	def := Definition{
		Name: "mixed",
		Stops: []StopDefinition{
			{Color: "red"},
			{ID: "mid", Color: "hsl(120 100% 50%)", Position: ptr(140.0)},
			{ID: "mid", Color: "rgba(0, 0, 255, 0.5)"},
			{Color: "nope", Position: ptr(10.0)},
		},
	}

	stops, _, findings := def.Resolve()

	want := []gradient.ColorStop{
		{ID: "stop-1", Color: "#ff0000", Position: 0},
		{ID: "mid", Color: "#00ff00", Position: 100},
		{ID: "mid", Color: "#0000ff", Position: 67},
		{ID: "stop-4", Color: "nope", Position: 10},
	}
	if diff := cmp.Diff(want, stops); diff != "" {
		t.Errorf("Resolve() stops mismatch (-want +got):\n%s", diff)
	}

	type key struct {
		linter, field string
		stop          int
		severity      string
	}
	var got []key
	for _, f := range findings {
		got = append(got, key{f.Linter, f.Field, f.Stop, f.Severity})
	}
	assert.Equal(t, []key{
		{LinterRange, "position", 1, SeverityWarning},
		{LinterUnique, "id", 2, SeverityError},
		{LinterColor, "color", 2, SeverityWarning},
		{LinterColor, "color", 3, SeverityError},
	}, got)
}

func TestResolveFallbackIDsAvoidExplicitIDs(t *testing.T) {
	tests := []struct {
		name  string
		stops []StopDefinition
		want  []string
	}{
		{
			name:  "explicit id matches a later fallback",
			stops: []StopDefinition{{ID: "stop-2", Color: "red"}, {Color: "blue"}},
			want:  []string{"stop-2", "stop-2-2"},
		},
		{
			name:  "explicit id after the fallback",
			stops: []StopDefinition{{Color: "red"}, {Color: "lime"}, {ID: "stop-1", Color: "blue"}},
			want:  []string{"stop-1-2", "stop-2", "stop-1"},
		},
		{
			name:  "suffix already taken",
			stops: []StopDefinition{{ID: "stop-2-2", Color: "red"}, {Color: "blue"}, {ID: "stop-2", Color: "lime"}},
			want:  []string{"stop-2-2", "stop-2-3", "stop-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := Definition{Name: "a", Stops: tt.stops}
			stops, _, findings := def.Resolve()

			var ids []string
			for _, s := range stops {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Empty(t, findings)
			assert.True(t, Buildable(findings))
		})
	}
}

func TestResolveReplacements(t *testing.T) {
	def := Definition{
		Name:  "a",
		Angle: ptr(400.0),
		Stops: []StopDefinition{
			{Color: "#000", Position: ptr(-5.0)},
			{Color: "#fff", Position: ptr(100.0)},
		},
	}

	_, _, findings := def.Resolve()
	require.Len(t, findings, 2)
	assert.Equal(t, "360", findings[0].Replacement)
	assert.Equal(t, "angle 400 is outside 0..360 and will be clamped", findings[0].Text)
	assert.Equal(t, "0", findings[1].Replacement)
}

func TestSpreadPosition(t *testing.T) {
	tests := []struct {
		i, n int
		want float64
	}{
		{0, 1, 0},
		{0, 2, 0},
		{1, 2, 100},
		{1, 3, 50},
		{1, 4, 33},
		{2, 4, 67},
		{4, 5, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, spreadPosition(tt.i, tt.n), "spreadPosition(%d, %d)", tt.i, tt.n)
	}
}

func TestLocate(t *testing.T) {
	path := writeFile(t, t.TempDir(), "brand.yaml", brandYAML)
	f, err := LoadDefinitions(path)
	require.NoError(t, err)
	sunset := f.Gradients[0]

	tests := []struct {
		name     string
		finding  Finding
		wantLine int
	}{
		{"gradient field", Finding{Field: "angle", Stop: -1}, 5},
		{"stop field", Finding{Field: "color", Stop: 1}, 10},
		{"stop continuation line", Finding{Field: "position", Stop: 0}, 8},
		{"stop missing field", Finding{Field: "id", Stop: 0}, 7},
		{"unknown field", Finding{Field: "smoothness", Stop: -1}, 3},
		{"stop out of range", Finding{Field: "color", Stop: 9}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLine, sunset.locate(tt.finding).Line)
		})
	}
}
