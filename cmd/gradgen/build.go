package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/gradgen"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a stylesheet from gradient definition files",
	Long: `Compile every gradient in the definition files under the source
directory and write one CSS class per gradient, or a JSON manifest.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	RunE: runBuild,
}

func init() {
	addSourceFlags(buildCmd)
	f := buildCmd.Flags()
	f.String("output", "web/styles/gradients.css", "Output file")
	f.String("format", gradgen.FormatCSS, "Output format: css|json")
	f.String("class-prefix", gradgen.DefaultClassPrefix, "Prefix of generated class names")
}

// addSourceFlags registers the definition file flags shared by build, check
// and watch
func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("source", "design/gradients", "Directory containing gradient definitions")
	f.StringSlice("include", nil, "Glob patterns for definition files to include")
	f.Int("concurrency", 0, "Definition files loaded in parallel (0=default)")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	config := buildBuildConfig()

	result, err := gradgen.Build(cmd.Context(), config)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if !getBoolWithFallback("quiet", "quiet", false) {
		printBuildResult(cmd, config, result)
	}
	return nil
}

func printBuildResult(cmd *cobra.Command, config gradgen.BuildConfig, result *gradgen.BuildResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Built %s\n", config.Output)
	fmt.Fprintf(out, "  Files scanned: %d\n", result.FilesScanned)
	fmt.Fprintf(out, "  Gradients built: %d\n", result.GradientsBuilt)

	for _, w := range result.Warnings {
		fmt.Fprintf(out, "  Warning: %s\n", w)
	}
}
