package gradgen

import (
	"fmt"
	"io"
	"strings"

	"github.com/yacobolo/gradgen/internal/gradient"
	"github.com/yacobolo/gradgen/internal/logging"
)

// OutputFormat represents the check output format
type OutputFormat string

const (
	// OutputIssues shows only errors/warnings in golangci-lint format (CI-friendly)
	OutputIssues OutputFormat = "issues"
	// OutputSummary shows statistics only
	OutputSummary OutputFormat = "summary"
	// OutputFull shows issues and statistics
	OutputFull OutputFormat = "full"
	// OutputJSON exports structured data in JSON format
	OutputJSON OutputFormat = "json"
	// OutputMarkdown generates a Markdown report
	OutputMarkdown OutputFormat = "markdown"
)

// DetermineOutputFormat selects the output format from the flag value
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	// Explicit --quiet wins (exit code only)
	if quiet {
		return OutputIssues
	}

	switch formatFlag {
	case "issues":
		return OutputIssues
	case "summary":
		return OutputSummary
	case "full":
		return OutputFull
	case "json":
		return OutputJSON
	case "markdown", "md":
		return OutputMarkdown
	}

	return DetermineDefaultOutputFormat()
}

// DetermineDefaultOutputFormat returns the default output format: issues
// only, the way golangci-lint prints
func DetermineDefaultOutputFormat() OutputFormat {
	return OutputIssues
}

// WriteOutput writes the check result in the specified format
func WriteOutput(w io.Writer, result *CheckResult, format OutputFormat, config CheckConfig) {
	switch format {
	case OutputSummary:
		verboseReporter := NewVerboseReporter(w, shouldUseColors(w, config))
		verboseReporter.PrintStatistics(*result)
		verboseReporter.PrintTypeBreakdown(*result)
		verboseReporter.PrintHealth(*result)
		verboseReporter.PrintWarnings(*result)

	case OutputFull:
		reporter := NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)

		verboseReporter := NewVerboseReporter(w, reporter.UseColors())
		verboseReporter.PrintStatistics(*result)
		verboseReporter.PrintTypeBreakdown(*result)
		verboseReporter.PrintHealth(*result)
		verboseReporter.PrintWarnings(*result)

	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			logging.Logger().Error("writing JSON output", "error", err)
		}

	case OutputMarkdown:
		if err := WriteMarkdown(w, result); err != nil {
			logging.Logger().Error("writing Markdown output", "error", err)
		}

	default:
		reporter := NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)
	}
}

// WriteMarkdown writes the check result as a Markdown report
func WriteMarkdown(w io.Writer, result *CheckResult) error {
	var b strings.Builder

	b.WriteString("# Gradient Check Report\n\n")
	fmt.Fprintf(&b, "**Status:** %s\n\n", markdownStatus(result))
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| Files scanned | %d |\n", result.FilesScanned)
	fmt.Fprintf(&b, "| Gradients checked | %d |\n", result.GradientsChecked)
	fmt.Fprintf(&b, "| Without issues | %d (%.1f%%) |\n", result.CleanGradients, result.CleanPercentage())
	fmt.Fprintf(&b, "| Errors | %d |\n", result.ErrorCount)
	fmt.Fprintf(&b, "| Warnings | %d |\n", result.WarningCount)
	if result.TruncatedCount > 0 {
		fmt.Fprintf(&b, "| Truncated | %d |\n", result.TruncatedCount)
	}

	if len(result.GradientsByType) > 0 {
		b.WriteString("\n## Types\n\n")
		b.WriteString("| Type | Gradients |\n")
		b.WriteString("|---|---|\n")
		for _, t := range gradient.Types {
			if n := result.GradientsByType[t]; n > 0 {
				fmt.Fprintf(&b, "| %s | %d |\n", t, n)
			}
		}
	}

	b.WriteString("\n## Issues\n\n")
	if len(result.Issues) == 0 {
		b.WriteString("No issues found.\n")
	} else {
		b.WriteString("| Location | Severity | Gradient | Message | Linter |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, issue := range result.Issues {
			fmt.Fprintf(&b, "| `%s:%d:%d` | %s | %s | %s | %s |\n",
				issue.Pos.Filename, issue.Pos.Line, issue.Pos.Column,
				issue.Severity, issue.Gradient, markdownEscape(issue.Text), issue.FromLinter)
		}
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	b.WriteString("\n---\n*Generated by gradgen*\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// markdownStatus summarizes the result as a badge
func markdownStatus(result *CheckResult) string {
	switch {
	case result.ErrorCount > 0:
		return "🔴 Needs Attention"
	case result.WarningCount > 0:
		return "🟡 Has Warnings"
	default:
		return "🟢 Healthy"
	}
}

// markdownEscape keeps table cells intact
func markdownEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
