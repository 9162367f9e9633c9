package gradgen

import (
	"fmt"
	"io"

	"github.com/yacobolo/gradgen/internal/gradient"
)

// VerboseReporter handles detailed statistics
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{
		w:         w,
		useColors: useColors,
	}
}

// PrintStatistics outputs detailed check statistics
func (r *VerboseReporter) PrintStatistics(result CheckResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Gradient Statistics", r.useColors))
	fmt.Fprintln(r.w, "-------------------")

	fmt.Fprintf(r.w, "Files Scanned:      %d\n", result.FilesScanned)
	fmt.Fprintf(r.w, "Files Skipped:      %d\n", result.FilesSkipped)
	fmt.Fprintf(r.w, "Gradients Checked:  %d\n", result.GradientsChecked)
	fmt.Fprintf(r.w, "Without Issues:     %d\n", result.CleanGradients)
	fmt.Fprintf(r.w, "Errors:             %d\n", result.ErrorCount)
	fmt.Fprintf(r.w, "Warnings:           %d\n", result.WarningCount)
}

// PrintTypeBreakdown lists how many gradients use each type
func (r *VerboseReporter) PrintTypeBreakdown(result CheckResult) {
	if len(result.GradientsByType) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Types", r.useColors))
	fmt.Fprintln(r.w, "-----")

	for _, t := range gradient.Types {
		if n := result.GradientsByType[t]; n > 0 {
			fmt.Fprintf(r.w, "%-18s %d\n", t, n)
		}
	}
}

// PrintHealth shows a progress bar of gradients without issues
func (r *VerboseReporter) PrintHealth(result CheckResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Health", r.useColors))
	fmt.Fprintln(r.w, "------")
	printProgressBar(r.w, result.CleanPercentage())
}

// PrintWarnings shows checker warnings
func (r *VerboseReporter) PrintWarnings(result CheckResult) {
	if len(result.Warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "-----------")

	for _, warning := range result.Warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}

// printProgressBar prints a visual progress bar
func printProgressBar(w io.Writer, percentage float64) {
	barWidth := 20
	filled := int(percentage / 100 * float64(barWidth))

	fmt.Fprint(w, "[")
	for i := 0; i < barWidth; i++ {
		if i < filled {
			fmt.Fprint(w, "█")
		} else {
			fmt.Fprint(w, "░")
		}
	}
	fmt.Fprintf(w, "] %.1f%%\n", percentage)
}
