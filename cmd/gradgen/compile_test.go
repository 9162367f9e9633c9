package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/gradgen"
	"github.com/yacobolo/gradgen/internal/gradient"
	"github.com/yacobolo/gradgen/internal/store"
)

const definitions = `gradients:
- name: dawn
  type: conic
  angle: 45
  smoothness: 20
  stops:
  - color: "#000"
    position: 0
  - color: rgb(255 255 255)
    position: 100
- name: broken
  stops:
  - color: red
    position: 0
- name: twins
  stops:
  - id: a
    color: red
  - id: a
    color: blue
- name: fallback
  stops:
  - id: stop-2
    color: red
  - color: blue
`

func writeDefinitions(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brand.yaml")
	require.NoError(t, os.WriteFile(path, []byte(definitions), 0644))
	return path
}

func TestParseStop(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		i, n    int
		want    gradient.ColorStop
		wantErr bool
	}{
		{"named color spread first", "red", 0, 2, gradient.ColorStop{ID: "stop-1", Color: "#ff0000", Position: 0}, false},
		{"named color spread last", "blue", 1, 2, gradient.ColorStop{ID: "stop-2", Color: "#0000ff", Position: 100}, false},
		{"spread middle of three", "lime", 1, 3, gradient.ColorStop{ID: "stop-2", Color: "#00ff00", Position: 50}, false},
		{"spread rounds", "#abc", 1, 4, gradient.ColorStop{ID: "stop-2", Color: "#aabbcc", Position: 33}, false},
		{"explicit position", "#00ff00@25", 0, 2, gradient.ColorStop{ID: "stop-1", Color: "#00ff00", Position: 25}, false},
		{"percent suffix", "#123456 @ 40%", 0, 2, gradient.ColorStop{ID: "stop-1", Color: "#123456", Position: 40}, false},
		{"position clamped high", "red@150", 0, 2, gradient.ColorStop{ID: "stop-1", Color: "#ff0000", Position: 100}, false},
		{"position clamped low", "red@-5", 0, 2, gradient.ColorStop{ID: "stop-1", Color: "#ff0000", Position: 0}, false},
		{"invalid color", "nope@10", 0, 2, gradient.ColorStop{}, true},
		{"invalid position", "red@far", 0, 2, gradient.ColorStop{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStop(tt.spec, tt.i, tt.n)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStopInvalidPosition(t *testing.T) {
	_, err := parseStop("red@far", 0, 2)
	require.ErrorIs(t, err, gradient.ErrInvalidPosition)
}

func TestParseStopsCount(t *testing.T) {
	_, err := parseStops([]string{"red"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 2 to 5")

	_, err = parseStops([]string{"red", "red", "red", "red", "red", "red"})
	require.Error(t, err)

	stops, err := parseStops([]string{"red", "nope"})
	require.Error(t, err)
	assert.Nil(t, stops)
	assert.Contains(t, err.Error(), "stop 2")
}

func TestGradientInput_Defaults(t *testing.T) {
	resetKoanf()

	stops, params, err := gradientInput(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, gradient.DefaultStops(), stops)
	assert.Equal(t, gradient.DefaultParams(), params)
}

func TestGradientInput_FlagsAreClamped(t *testing.T) {
	resetKoanf()
	k.Set("type", "repeating-conic-gradient")
	k.Set("angle", 400.0)
	k.Set("smoothness", 150)
	k.Set("stop", []string{"red", "blue"})

	stops, params, err := gradientInput(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, gradient.Params{Type: gradient.RepeatingConic, Angle: 360, Smoothness: 100}, params)
	require.Len(t, stops, 2)
	assert.Equal(t, "#ff0000", stops[0].Color)
	assert.Equal(t, "#0000ff", stops[1].Color)
}

func TestGradientInput_ConfigDefaults(t *testing.T) {
	resetKoanf()
	k.Set("compile.type", "radial")
	k.Set("compile.stops", []interface{}{"black@0", "white@100"})

	stops, params, err := gradientInput(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, gradient.Radial, params.Type)
	assert.InDelta(t, 90.0, params.Angle, 0.001)
	assert.Equal(t, []gradient.ColorStop{
		{ID: "stop-1", Color: "#000000", Position: 0},
		{ID: "stop-2", Color: "#ffffff", Position: 100},
	}, stops)
}

func TestGradientInput_UnknownType(t *testing.T) {
	resetKoanf()
	k.Set("type", "spiral")

	_, _, err := gradientInput(&bytes.Buffer{})
	require.ErrorIs(t, err, gradient.ErrUnknownType)
}

func TestGradientInput_FromDefinitionFile(t *testing.T) {
	resetKoanf()
	k.Set("from", writeDefinitions(t))
	// Config defaults do not apply on top of a definition file
	k.Set("compile.type", "radial")

	stops, params, err := gradientInput(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, gradient.Params{Type: gradient.Conic, Angle: 45, Smoothness: 20}, params)
	require.Len(t, stops, 2)
	assert.Equal(t, "#000000", stops[0].Color)
	assert.Equal(t, "#ffffff", stops[1].Color)

	// Flags do
	k.Set("angle", 10.0)
	_, params, err = gradientInput(&bytes.Buffer{})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, params.Angle, 0.001)
}

func TestGradientInput_FallbackIDsAreUnique(t *testing.T) {
	resetKoanf()
	k.Set("from", writeDefinitions(t))
	k.Set("name", "fallback")

	stops, params, err := gradientInput(&bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, stops, 2)
	assert.NotEqual(t, stops[0].ID, stops[1].ID)

	_, err = gradient.NewEditor(gradient.WithStops(stops), gradient.WithParams(params))
	require.NoError(t, err)
}

func TestGradientInput_FromDefinitionFileErrors(t *testing.T) {
	path := writeDefinitions(t)

	tests := []struct {
		name     string
		gradName string
		wantErr  string
	}{
		{"missing gradient", "nope", `gradient "nope" not found`},
		{"unbuildable gradient", "broken", "cannot be compiled"},
		{"duplicate stop ids", "twins", "cannot be compiled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetKoanf()
			k.Set("from", path)
			k.Set("name", tt.gradName)

			var warn bytes.Buffer
			_, _, err := gradientInput(&warn)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteCompiled(t *testing.T) {
	stops, params := gradient.DefaultStops(), gradient.DefaultParams()
	result := gradient.Compile(stops, params)

	tests := []struct {
		format string
		want   string
	}{
		{formatDeclaration, result.Declaration + "\n"},
		{formatInline, result.CSS + "\n"},
		{formatPretty, result.Pretty + "\n"},
		{formatStyle, "background-image: " + result.CSS + ";\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeCompiled(&buf, tt.format, stops, params, result))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteCompiledJSON(t *testing.T) {
	stops, params := gradient.DefaultStops(), gradient.DefaultParams()
	result := gradient.Compile(stops, params)

	var buf bytes.Buffer
	require.NoError(t, writeCompiled(&buf, formatJSON, stops, params, result))

	var got compiledOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, stops, got.Stops)
	assert.Equal(t, params, got.Params)
	assert.Equal(t, result.Declaration, got.Result.Declaration)
}

func TestWriteCompiledUnknownFormat(t *testing.T) {
	err := writeCompiled(&bytes.Buffer{}, "xml", nil, gradient.DefaultParams(), gradient.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}

func TestSaveStyleRoundTrip(t *testing.T) {
	resetKoanf()
	k.Set("store-path", filepath.Join(t.TempDir(), "storage.json"))

	want := gradient.Compile([]gradient.ColorStop{
		{Color: "#000000", Position: 0},
		{Color: "#ffffff", Position: 100},
	}, gradient.Params{Type: gradient.Radial})
	require.NoError(t, saveStyle(want.Style))

	s, err := openStore()
	require.NoError(t, err)
	defer s.Close()

	got, err := store.RestoreStyle(s)
	require.NoError(t, err)
	assert.Equal(t, want.Style, got)
}

func TestCompileFile(t *testing.T) {
	var out, errOut bytes.Buffer
	path := writeDefinitions(t)
	require.NoError(t, compileFile(&out, &errOut, path))

	assert.Contains(t, out.String(), "dawn: background-image: conic-gradient(")
	assert.NotContains(t, out.String(), "broken:")
	assert.Contains(t, errOut.String(), "broken: error:")
}

func TestCompileFileMissing(t *testing.T) {
	err := compileFile(&bytes.Buffer{}, &bytes.Buffer{}, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestFailed(t *testing.T) {
	tests := []struct {
		name   string
		result gradgen.CheckResult
		strict bool
		want   bool
	}{
		{"clean", gradgen.CheckResult{}, false, false},
		{"clean strict", gradgen.CheckResult{}, true, false},
		{"warnings only", gradgen.CheckResult{Issues: []gradgen.Issue{{}}, WarningCount: 1}, false, false},
		{"warnings only strict", gradgen.CheckResult{Issues: []gradgen.Issue{{}}, WarningCount: 1}, true, true},
		{"errors", gradgen.CheckResult{Issues: []gradgen.Issue{{}}, ErrorCount: 1}, false, true},
		{"truncated strict", gradgen.CheckResult{TruncatedCount: 3}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failed(&tt.result, tt.strict))
		})
	}
}
