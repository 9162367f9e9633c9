package gradgen

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"
)

// Reporter prints check issues and the closing summary as plain text
type Reporter struct {
	w               io.Writer
	useColors       bool
	printLines      bool
	printLinterName bool
}

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer, config CheckConfig) *Reporter {
	return &Reporter{
		w:               w,
		useColors:       shouldUseColors(w, config),
		printLines:      config.PrintIssuedLines,
		printLinterName: config.PrintLinterName,
	}
}

// shouldUseColors decides on ANSI styling. --color wins, then NO_COLOR,
// then the CI variables, then whether w is a terminal.
func shouldUseColors(w io.Writer, config CheckConfig) bool {
	switch {
	case config.UseColors:
		return true
	case os.Getenv("NO_COLOR") != "":
		return false
	case os.Getenv("FORCE_COLOR") != "", os.Getenv("GITHUB_ACTIONS") == "true":
		return true
	}

	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// PrintIssues writes one "file:line:col: text" entry per issue, ordered by
// position in the definition files
func (r *Reporter) PrintIssues(issues []Issue) {
	slices.SortStableFunc(issues, func(a, b Issue) int {
		return cmp.Or(
			strings.Compare(a.Pos.Filename, b.Pos.Filename),
			cmp.Compare(a.Pos.Line, b.Pos.Line),
			cmp.Compare(a.Pos.Column, b.Pos.Column),
		)
	})

	for _, issue := range issues {
		r.printIssue(issue)
	}
}

func (r *Reporter) printIssue(issue Issue) {
	pos := fmt.Sprintf("%s:%d:%d:", issue.Pos.Filename, issue.Pos.Line, issue.Pos.Column)

	text := issue.Text
	if issue.Severity == SeverityError {
		text = RenderStyle(StyleRed, "error: ", r.useColors) + text
	}

	var linter string
	if r.printLinterName {
		linter = " (" + issue.FromLinter + ")"
	}

	fmt.Fprintf(r.w, "%s %s%s\n",
		RenderStyle(StyleCyan, pos, r.useColors),
		text,
		RenderStyle(StyleGray, linter, r.useColors))

	if r.printLines && len(issue.SourceLines) > 0 {
		for _, line := range issue.SourceLines {
			fmt.Fprintf(r.w, "\t%s\n", line)
		}
		caret := r.buildCaretIndicator(issue.SourceLines[0], issue.Pos.Column)
		fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleYellow, caret, r.useColors))
	}

	if issue.Replacement != nil {
		fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleGray, "using: "+issue.Replacement.NewText, r.useColors))
	}
}

// buildCaretIndicator points at column in sourceLine. Tabs before the
// column are kept so the caret stays aligned under the key.
func (r *Reporter) buildCaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}

	prefix := sourceLine[:min(column-1, len(sourceLine))]
	padding := strings.Map(func(ch rune) rune {
		if ch == '\t' {
			return '\t'
		}
		return ' '
	}, prefix)

	return padding + "^"
}

// PrintSummary writes the issue totals, a per-linter count and a hint
func (r *Reporter) PrintSummary(result CheckResult) {
	fmt.Fprintln(r.w, "")

	if len(result.Issues) == 0 && result.TruncatedCount == 0 {
		msg := fmt.Sprintf("No issues in %s.", pluralizeCount(result.GradientsChecked, "gradient", "gradients"))
		fmt.Fprintln(r.w, RenderStyle(StyleGreen, msg, r.useColors))
		return
	}

	fmt.Fprintln(r.w, summaryHeadline(result))

	perLinter := make(map[string]int)
	for _, issue := range result.Issues {
		perLinter[issue.FromLinter]++
	}
	for _, linter := range sortedLinters(perLinter) {
		fmt.Fprintf(r.w, "* %s: %d\n", linter, perLinter[linter])
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleGray, "Hint: Run with --output-format full to see statistics", r.useColors))
}

// summaryHeadline renders "N issues (E errors, W warnings; T issues truncated):".
// The severity split only appears when both severities are present.
func summaryHeadline(result CheckResult) string {
	var errs, warnings int
	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warnings++
		}
	}

	var details []string
	if errs > 0 && warnings > 0 {
		details = append(details, pluralizeCount(errs, "error", "errors")+", "+pluralizeCount(warnings, "warning", "warnings"))
	}
	if result.TruncatedCount > 0 {
		details = append(details, pluralizeCount(result.TruncatedCount, "issue", "issues")+" truncated")
	}

	headline := pluralizeCount(len(result.Issues), "issue", "issues")
	if len(details) > 0 {
		headline += " (" + strings.Join(details, "; ") + ")"
	}
	return headline + ":"
}

func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// UseColors reports whether output is styled
func (r *Reporter) UseColors() bool {
	return r.useColors
}
