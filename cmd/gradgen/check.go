package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/gradgen"
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"lint"},
	Short:   "Check gradient definition files",
	Long: `Validate gradient definition files and report problems in
golangci-lint style. Errors fail the run; with --strict warnings do too.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCheck(cmd)
	},
}

func init() {
	addSourceFlags(checkCmd)
	f := checkCmd.Flags()
	f.Bool("strict", false, "Exit 1 on any issue (CI mode)")
	f.String("output-format", "", "Output format: issues|summary|full|json|markdown")
	f.Int("max-issues-per-linter", 0, "Max issues to show per linter (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (gradcolor) suffix on issues")
}

func runCheck(cmd *cobra.Command) error {
	config := buildCheckConfig()

	result, err := gradgen.Check(cmd.Context(), config)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	outputFormat := getStringWithFallback("output-format", "check.output-format", "")
	format := gradgen.DetermineOutputFormat(outputFormat, quiet)

	if !quiet {
		gradgen.WriteOutput(cmd.OutOrStdout(), result, format, config)
	}

	// Exit code logic - "Soft Gate" approach
	if failed(result, config.Strict) {
		os.Exit(1)
	}
	return nil
}

// failed reports whether result should fail the run: any issue in strict
// mode, only errors otherwise
func failed(result *gradgen.CheckResult, strict bool) bool {
	if strict {
		return len(result.Issues) > 0 || result.TruncatedCount > 0
	}
	return result.HasErrors()
}
