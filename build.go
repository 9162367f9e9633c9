package gradgen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/yacobolo/gradgen/internal/gradient"
	"github.com/yacobolo/gradgen/internal/logging"
)

// Build output formats
const (
	FormatCSS  = "css"
	FormatJSON = "json"
)

// DefaultClassPrefix prefixes every generated class name
const DefaultClassPrefix = "gradient"

// BuildConfig holds build configuration
type BuildConfig struct {
	SourceDir   string   // "design/gradients"
	Includes    []string // ["**/*.yaml", "**/*.yml"]
	Output      string   // "web/styles/gradients.css"
	Format      string   // "css" (default) or "json"
	ClassPrefix string   // "gradient" gives .gradient-sunset
	Concurrency int      // Files loaded in parallel (0 = default)
}

// BuildResult contains build stats and the compiled gradients
type BuildResult struct {
	FilesScanned   int
	GradientsBuilt int
	Gradients      []CompiledGradient
	Warnings       []string
}

// CompiledGradient is one named gradient after compilation
type CompiledGradient struct {
	Name      string          `json:"name"`
	ClassName string          `json:"className"`
	Source    string          `json:"source"`
	Params    gradient.Params `json:"params"`
	Result    gradient.Result `json:"result"`
}

// classNameUnsafe matches runs of characters not allowed in a class name
var classNameUnsafe = regexp.MustCompile(`[^a-z0-9_-]+`)

// Build compiles every definition under config.SourceDir and writes the
// result to config.Output
func Build(ctx context.Context, config BuildConfig) (*BuildResult, error) {
	result := &BuildResult{}

	// 1. Find definition files
	files, stats, err := ScanDefinitionFiles(config.SourceDir, config.Includes)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	result.FilesScanned = stats.FilesScanned
	logging.Logger().Debug("scanned definition files", "found", stats.FilesDiscovered, "scanned", stats.FilesScanned)

	// 2. Load files concurrently
	loaded, err := loadAll(ctx, files, config.Concurrency)
	if err != nil {
		return nil, err
	}

	// 3. Resolve and compile; first definition of a name wins
	seen := make(map[string]string)
	for _, lf := range loaded {
		if lf.err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Failed to load %s: %v", lf.path, lf.err))
			continue
		}

		for _, def := range lf.file.Gradients {
			compiled, warnings, ok := compileDefinition(lf.path, def, config.ClassPrefix)
			result.Warnings = append(result.Warnings, warnings...)
			if !ok {
				continue
			}
			if prev, dup := seen[compiled.Name]; dup {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: gradient %q is already defined in %s, skipped", lf.path, compiled.Name, prev))
				continue
			}
			seen[compiled.Name] = lf.path
			result.Gradients = append(result.Gradients, compiled)
		}
	}

	sort.Slice(result.Gradients, func(i, j int) bool {
		return result.Gradients[i].Name < result.Gradients[j].Name
	})
	result.GradientsBuilt = len(result.Gradients)

	// 4. Write output
	if config.Output != "" {
		if err := writeBuildOutput(config, result); err != nil {
			return nil, fmt.Errorf("write failed: %w", err)
		}
	}

	return result, nil
}

// compileDefinition resolves and compiles one definition. ok is false when
// the definition cannot become a rule.
func compileDefinition(path string, def Definition, prefix string) (CompiledGradient, []string, bool) {
	stops, params, findings := def.Resolve()

	var warnings []string
	for _, f := range findings {
		name := def.Name
		if name == "" {
			name = "<unnamed>"
		}
		warnings = append(warnings, fmt.Sprintf("%s: %s: %s", path, name, f.Text))
	}
	if !Buildable(findings) {
		return CompiledGradient{}, warnings, false
	}

	return CompiledGradient{
		Name:      def.Name,
		ClassName: ClassName(prefix, def.Name),
		Source:    path,
		Params:    params,
		Result:    gradient.Compile(stops, params),
	}, warnings, true
}

// ClassName builds the CSS class for a gradient: "gradient" and "Sunset Glow"
// give "gradient-sunset-glow". An empty prefix leaves the name alone.
func ClassName(prefix, name string) string {
	slug := strings.Trim(classNameUnsafe.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if prefix == "" {
		return slug
	}
	return prefix + "-" + slug
}

// writeBuildOutput writes the stylesheet or manifest, creating parent
// directories as needed
func writeBuildOutput(config BuildConfig, result *BuildResult) error {
	if dir := filepath.Dir(config.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(config.Output)
	if err != nil {
		return err
	}
	defer f.Close()

	switch config.Format {
	case FormatJSON:
		err = WriteManifest(f, result.Gradients)
	case "", FormatCSS:
		err = WriteStylesheet(f, result.Gradients)
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", config.Format, FormatCSS, FormatJSON)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// WriteStylesheet writes one rule per gradient
func WriteStylesheet(w io.Writer, gradients []CompiledGradient) error {
	var b strings.Builder
	b.WriteString("/* Code generated by gradgen. DO NOT EDIT. */\n")

	for _, g := range gradients {
		b.WriteString("\n")
		fmt.Fprintf(&b, "/* %s (%s) */\n", g.Name, g.Source)
		fmt.Fprintf(&b, ".%s {\n", g.ClassName)
		for _, line := range strings.Split(g.Result.Declaration, "\n") {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("}\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteManifest writes the compiled gradients as indented JSON
func WriteManifest(w io.Writer, gradients []CompiledGradient) error {
	if gradients == nil {
		gradients = []CompiledGradient{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(gradients)
}
