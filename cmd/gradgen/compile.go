package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yacobolo/gradgen"
	"github.com/yacobolo/gradgen/internal/clipboard"
	"github.com/yacobolo/gradgen/internal/color"
	"github.com/yacobolo/gradgen/internal/gradient"
	"github.com/yacobolo/gradgen/internal/preview"
	"github.com/yacobolo/gradgen/internal/store"
)

// Compile output formats
const (
	formatDeclaration = "declaration"
	formatInline      = "inline"
	formatPretty      = "pretty"
	formatStyle       = "style"
	formatJSON        = "json"
)

var compileCmd = &cobra.Command{
	Use:     "compile",
	Aliases: []string{"css"},
	Short:   "Compile color stops into a CSS gradient",
	Long: `Compile two to five color stops into a CSS gradient declaration.
Stops are given as COLOR[@POSITION]; any CSS color is accepted and positions
without a value are spread evenly. Stops can also come from a definition file.`,
	Example: `  gradgen compile --stop "#ff5f6d@0" --stop "#ffc371@100"
  gradgen compile --type conic --angle 45 --stop red --stop blue --stop red
  gradgen compile --from design/gradients/brand.yaml --name sunset --copy`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	RunE: runCompile,
}

func init() {
	addCompileFlags(compileCmd)
}

// addCompileFlags registers the flags shared by compile and the root command
func addCompileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("type", string(gradient.Linear), "Gradient type: "+strings.Join(gradient.TypeNames(), "|"))
	f.Float64("angle", 90, "Angle in degrees (0-360)")
	f.Int("smoothness", 0, "Smoothing level (0-100)")
	f.StringArray("stop", nil, "Color stop as COLOR[@POSITION], repeatable")
	f.String("from", "", "Read stops and parameters from a definition file")
	f.String("name", "", "Gradient to use from --from (default: first)")
	f.String("format", formatDeclaration, "Output format: declaration|inline|pretty|style|json")
	f.Bool("copy", false, "Copy the declaration to the clipboard")
	f.Bool("save", false, "Persist the style so restore and edit can pick it up")
	f.String("png", "", "Write a PNG preview to this path")
	f.Int("width", 800, "Preview width in pixels")
	f.Int("height", 400, "Preview height in pixels")
}

func runCompile(cmd *cobra.Command, _ []string) error {
	stops, params, err := gradientInput(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	result := gradient.Compile(stops, params)

	format := getStringWithFallback("format", "compile.format", formatDeclaration)
	if err := writeCompiled(cmd.OutOrStdout(), format, stops, params, result); err != nil {
		return err
	}

	if path := getStringWithFallback("png", "compile.png", ""); path != "" {
		width := getIntWithFallback("width", "preview.width", 800)
		height := getIntWithFallback("height", "preview.height", 400)
		if err := preview.SavePNG(path, result, params, width, height); err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Preview written to %s\n", path)
	}

	if getBoolWithFallback("save", "compile.save", false) {
		if err := saveStyle(result.Style); err != nil {
			return err
		}
	}

	if getBoolWithFallback("copy", "compile.copy", false) {
		copier := clipboard.New(cmd.ErrOrStderr())
		method, err := copier.Copy(result.Declaration)
		if err != nil {
			// Not fatal: the declaration is already on stdout
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "CSS code copied to clipboard (%s)\n", method)
		}
	}

	return nil
}

// gradientInput assembles stops and params from a definition file or from
// flags and config. Values outside their range are clamped.
func gradientInput(warn io.Writer) ([]gradient.ColorStop, gradient.Params, error) {
	var (
		stops    []gradient.ColorStop
		params   = gradient.DefaultParams()
		fromFile bool
	)

	if from := getStringWithFallback("from", "compile.from", ""); from != "" {
		def, err := loadDefinition(from, getStringWithFallback("name", "compile.name", ""))
		if err != nil {
			return nil, params, err
		}
		var findings []gradgen.Finding
		stops, params, findings = def.Resolve()
		for _, f := range findings {
			fmt.Fprintf(warn, "%s: %s: %s\n", from, f.Severity, f.Text)
		}
		if !gradgen.Buildable(findings) {
			return nil, params, fmt.Errorf("gradient %q in %s cannot be compiled", def.Name, from)
		}
		fromFile = true
	}

	// Flags override a definition file; config defaults only apply without one
	configKey := func(key string) string {
		if fromFile {
			return ""
		}
		return "compile." + key
	}

	if v := firstSet("type", configKey("type")); v != "" {
		t, err := gradient.ParseType(k.String(v))
		if err != nil {
			return nil, params, err
		}
		params.Type = t
	}
	if v := firstSet("angle", configKey("angle")); v != "" {
		params.Angle = gradient.ClampAngle(k.Float64(v))
	}
	if v := firstSet("smoothness", configKey("smoothness")); v != "" {
		params.Smoothness = gradient.ClampSmoothness(k.Int(v))
	}

	specs := k.Strings("stop")
	if key := configKey("stops"); len(specs) == 0 && key != "" {
		specs = k.Strings(key)
	}
	if len(specs) > 0 {
		parsed, err := parseStops(specs)
		if err != nil {
			return nil, params, err
		}
		stops = parsed
	}
	if stops == nil {
		stops = gradient.DefaultStops()
	}

	return stops, params, nil
}

// firstSet returns the first non-empty key present in koanf
func firstSet(keys ...string) string {
	for _, key := range keys {
		if key != "" && k.Exists(key) {
			return key
		}
	}
	return ""
}

// loadDefinition reads one gradient from a definition file
func loadDefinition(path, name string) (gradgen.Definition, error) {
	f, err := gradgen.LoadDefinitions(path)
	if err != nil {
		return gradgen.Definition{}, err
	}
	if len(f.Gradients) == 0 {
		return gradgen.Definition{}, fmt.Errorf("%s defines no gradients", path)
	}
	if name == "" {
		return f.Gradients[0], nil
	}
	def, ok := f.Lookup(name)
	if !ok {
		return gradgen.Definition{}, fmt.Errorf("gradient %q not found in %s", name, path)
	}
	return def, nil
}

// parseStops parses COLOR[@POSITION] specs. Missing positions are spread
// evenly by index.
func parseStops(specs []string) ([]gradient.ColorStop, error) {
	if n := len(specs); n < gradient.MinStops || n > gradient.MaxStops {
		return nil, fmt.Errorf("got %d color stops, want %d to %d", n, gradient.MinStops, gradient.MaxStops)
	}

	stops := make([]gradient.ColorStop, len(specs))
	for i, spec := range specs {
		stop, err := parseStop(spec, i, len(specs))
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i+1, err)
		}
		stops[i] = stop
	}
	return stops, nil
}

// parseStop parses "red", "#ff0000@25" or "rgb(0 0 255)@100%"
func parseStop(spec string, i, n int) (gradient.ColorStop, error) {
	css, pos := strings.TrimSpace(spec), ""
	if at := strings.LastIndex(css, "@"); at >= 0 {
		css, pos = strings.TrimSpace(css[:at]), strings.TrimSpace(css[at+1:])
	}

	c, err := color.ParseCSSColor(css)
	if err != nil {
		return gradient.ColorStop{}, err
	}

	stop := gradient.ColorStop{
		ID:    fmt.Sprintf("stop-%d", i+1),
		Color: c.Hex(),
	}

	if pos == "" {
		if n > 1 {
			stop.Position = float64(i) / float64(n-1) * 100
		}
		stop.Position = gradient.ClampPosition(float64(int(stop.Position + 0.5)))
		return stop, nil
	}

	p, err := strconv.ParseFloat(strings.TrimSuffix(pos, "%"), 64)
	if err != nil {
		return gradient.ColorStop{}, fmt.Errorf("%w %q", gradient.ErrInvalidPosition, pos)
	}
	stop.Position = gradient.ClampPosition(p)
	return stop, nil
}

// compiledOutput is the json output of compile
type compiledOutput struct {
	Stops  []gradient.ColorStop `json:"stops"`
	Params gradient.Params      `json:"params"`
	Result gradient.Result      `json:"result"`
}

// writeCompiled prints result in format
func writeCompiled(w io.Writer, format string, stops []gradient.ColorStop, params gradient.Params, result gradient.Result) error {
	switch format {
	case formatDeclaration:
		fmt.Fprintln(w, result.Declaration)
	case formatInline:
		fmt.Fprintln(w, result.CSS)
	case formatPretty:
		fmt.Fprintln(w, result.Pretty)
	case formatStyle:
		fmt.Fprintln(w, result.Style.Declarations())
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(compiledOutput{Stops: stops, Params: params, Result: result})
	default:
		return fmt.Errorf("unknown format %q (want declaration, inline, pretty, style or json)", format)
	}
	return nil
}

// saveStyle persists style in the configured store
func saveStyle(style gradient.Style) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := store.SaveStyle(s, style); err != nil {
		return fmt.Errorf("saving style: %w", err)
	}
	return nil
}

// openStore opens the configured store
func openStore() (store.Store, error) {
	driver, path := storeSettings()
	s, err := store.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return s, nil
}
