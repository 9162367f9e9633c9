package gradgen

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/gradgen/internal/gradient"
	"github.com/yacobolo/gradgen/internal/logging"
)

// CheckConfig holds checking configuration
type CheckConfig struct {
	SourceDir   string   // "design/gradients"
	Includes    []string // ["**/*.yaml", "**/*.yml"]
	Concurrency int      // Files loaded in parallel (0 = default)
	Strict      bool     // Exit with code 1 if any issue is found

	MaxIssuesPerLinter int  // 0 = unlimited (default)
	MaxSameIssues      int  // 0 = unlimited (default)
	PrintIssuedLines   bool // Show source lines with issues
	PrintLinterName    bool // Show (gradcolor) suffix
	UseColors          bool // Force color output (default: auto-detect)
}

// CheckResult contains the issues found in all definition files
type CheckResult struct {
	Issues           []Issue
	IssuesByLinter   map[string]int
	FilesScanned     int
	FilesSkipped     int
	GradientsChecked int
	CleanGradients   int // Gradients without any issue
	GradientsByType  map[gradient.Type]int
	ErrorCount       int
	WarningCount     int
	TruncatedCount   int // Issues removed due to limits
	Warnings         []string
}

// HasErrors reports whether any issue has error severity.
func (r *CheckResult) HasErrors() bool {
	return r.ErrorCount > 0
}

// CleanPercentage is the share of checked gradients without issues
func (r *CheckResult) CleanPercentage() float64 {
	if r.GradientsChecked == 0 {
		return 0
	}
	return float64(r.CleanGradients) / float64(r.GradientsChecked) * 100
}

// Check validates every definition file under config.SourceDir
func Check(ctx context.Context, config CheckConfig) (*CheckResult, error) {
	// 1. Find definition files
	files, stats, err := ScanDefinitionFiles(config.SourceDir, config.Includes)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	logging.Logger().Debug("scanned definition files", "found", stats.FilesDiscovered, "skipped", stats.FilesSkipped)

	result := &CheckResult{
		FilesScanned:    stats.FilesScanned,
		FilesSkipped:    stats.FilesSkipped,
		GradientsByType: make(map[gradient.Type]int),
		IssuesByLinter:  make(map[string]int),
	}
	if len(files) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("no definition files in %s match %s", config.SourceDir, strings.Join(config.Includes, ", ")))
	}

	// 2. Load files concurrently; parse failures become issues
	loaded, err := loadAll(ctx, files, config.Concurrency)
	if err != nil {
		return nil, err
	}

	// 3. Check each file in scan order; names must be unique across files
	firstSeen := make(map[string]FileLocation)
	for _, lf := range loaded {
		if lf.err != nil {
			result.Issues = append(result.Issues, Issue{
				FromLinter: LinterParse,
				Text:       fmt.Sprintf(IssueParse, lf.err),
				Severity:   SeverityError,
				Pos:        IssuePos{Filename: lf.path, Line: 1, Column: 1},
			})
			continue
		}
		result.Issues = append(result.Issues, checkFile(lf.file, firstSeen, result)...)
	}

	// 4. Tally
	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityError:
			result.ErrorCount++
		case SeverityWarning:
			result.WarningCount++
		}
		result.IssuesByLinter[issue.FromLinter]++
	}

	// 5. Apply issue limiting if configured
	if config.MaxIssuesPerLinter > 0 || config.MaxSameIssues > 0 {
		result.Issues, result.TruncatedCount = limitIssues(result.Issues, config)
	}

	return result, nil
}

// checkFile turns the findings of every gradient in f into issues
func checkFile(f *DefinitionFile, firstSeen map[string]FileLocation, result *CheckResult) []Issue {
	var issues []Issue

	if len(f.Gradients) == 0 {
		issues = append(issues, Issue{
			FromLinter: LinterStops,
			Text:       IssueNoGradients,
			Severity:   SeverityWarning,
			Pos:        IssuePos{Filename: f.Path, Line: 1, Column: 1},
		})
		return issues
	}

	for _, def := range f.Gradients {
		result.GradientsChecked++

		_, params, findings := def.Resolve()
		result.GradientsByType[params.Type]++

		if def.Name != "" {
			if prev, dup := firstSeen[def.Name]; dup {
				findings = append(findings, Finding{
					Severity: SeverityError,
					Linter:   LinterUnique,
					Field:    "name",
					Stop:     -1,
					Text:     fmt.Sprintf(IssueDuplicateName, def.Name, fmt.Sprintf("%s:%d", prev.File, prev.Line)),
				})
			} else {
				firstSeen[def.Name] = def.FieldLocation["name"]
				if firstSeen[def.Name].File == "" {
					firstSeen[def.Name] = def.Location
				}
			}
		}

		if len(findings) == 0 {
			result.CleanGradients++
		}
		for _, finding := range findings {
			issues = append(issues, newIssue(f, def, finding))
		}
	}

	return issues
}

// newIssue places a finding at its location in f
func newIssue(f *DefinitionFile, def Definition, finding Finding) Issue {
	loc := def.locate(finding)
	if loc.File == "" {
		loc = FileLocation{File: f.Path, Line: 1, Column: 1}
	}

	issue := Issue{
		FromLinter: finding.Linter,
		Text:       finding.Text,
		Severity:   finding.Severity,
		Gradient:   def.Name,
		Pos: IssuePos{
			Filename: loc.File,
			Line:     loc.Line,
			Column:   loc.Column,
		},
	}
	if loc.Text != "" {
		issue.SourceLines = []string{loc.Text}
	}
	if finding.Replacement != "" {
		issue.Replacement = &Replacement{NewText: finding.Replacement}
	}
	return issue
}

// loadedFile is the outcome of loading one definition file
type loadedFile struct {
	path string
	file *DefinitionFile
	err  error
}

// defaultConcurrency bounds parallel file loads
const defaultConcurrency = 8

// loadAll loads files in parallel, keeping input order. Per-file failures
// are recorded in the result; only cancellation aborts.
func loadAll(ctx context.Context, files []string, concurrency int) ([]loadedFile, error) {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	out := make([]loadedFile, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := LoadDefinitions(path)
			out[i] = loadedFile{path: path, file: f, err: err}
			if err != nil {
				logging.Logger().Debug("definition file failed to load", "path", path, "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading definitions: %w", err)
	}
	return out, nil
}

// limitIssues applies max-issues-per-linter and max-same-issues constraints
func limitIssues(issues []Issue, config CheckConfig) ([]Issue, int) {
	originalCount := len(issues)

	// Apply max-issues-per-linter
	if config.MaxIssuesPerLinter > 0 {
		issues = limitPerLinter(issues, config.MaxIssuesPerLinter)
	}

	// Apply max-same-issues (deduplication by message text)
	if config.MaxSameIssues > 0 {
		issues = deduplicateSameIssues(issues, config.MaxSameIssues)
	}

	truncatedCount := originalCount - len(issues)
	return issues, truncatedCount
}

// limitPerLinter keeps at most max issues from each linter
func limitPerLinter(issues []Issue, max int) []Issue {
	counts := make(map[string]int)
	var filtered []Issue

	for _, issue := range issues {
		if counts[issue.FromLinter] < max {
			filtered = append(filtered, issue)
			counts[issue.FromLinter]++
		}
	}

	return filtered
}

// deduplicateSameIssues limits how many times the same message appears
func deduplicateSameIssues(issues []Issue, maxSame int) []Issue {
	messageCounts := make(map[string]int)
	var filtered []Issue

	for _, issue := range issues {
		count := messageCounts[issue.Text]
		if count < maxSame {
			filtered = append(filtered, issue)
			messageCounts[issue.Text]++
		}
	}

	return filtered
}

// sortedLinters returns linter names ordered by descending count, then name
func sortedLinters(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return strings.Compare(names[i], names[j]) < 0
	})
	return names
}
