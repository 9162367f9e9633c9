package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/gradgen/internal/gradient"
	"github.com/yacobolo/gradgen/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file.png]",
	Short: "Render a gradient to a PNG or the terminal",
	Long: `Rasterize a gradient. With a path the preview is written as PNG;
without one a truecolor swatch is printed to the terminal.`,
	Example: `  gradgen preview --stop red --stop blue out.png
  gradgen preview --from design/gradients/brand.yaml --name sunset`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	RunE: runPreview,
}

func init() {
	f := previewCmd.Flags()
	f.String("type", string(gradient.Linear), "Gradient type")
	f.Float64("angle", 90, "Angle in degrees (0-360)")
	f.Int("smoothness", 0, "Smoothing level (0-100)")
	f.StringArray("stop", nil, "Color stop as COLOR[@POSITION], repeatable")
	f.String("from", "", "Read stops and parameters from a definition file")
	f.String("name", "", "Gradient to use from --from (default: first)")
	f.Int("width", 800, "PNG width in pixels, or swatch width in columns")
	f.Int("height", 400, "PNG height in pixels, or swatch height in rows")
}

func runPreview(cmd *cobra.Command, args []string) error {
	stops, params, err := gradientInput(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	result := gradient.Compile(stops, params)

	if len(args) == 1 {
		width := getIntWithFallback("width", "preview.width", 800)
		height := getIntWithFallback("height", "preview.height", 400)
		if err := preview.SavePNG(args[0], result, params, width, height); err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}
		if !getBoolWithFallback("quiet", "quiet", false) {
			fmt.Fprintf(cmd.OutOrStdout(), "Preview written to %s\n", args[0])
		}
		return nil
	}

	cols := getIntWithFallback("width", "preview.columns", 60)
	rows := getIntWithFallback("height", "preview.rows", 12)
	swatch, err := preview.Swatch(result, params, cols, rows)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), swatch)
	fmt.Fprintln(cmd.OutOrStdout(), result.Declaration)
	return nil
}
