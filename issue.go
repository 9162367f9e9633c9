package gradgen

// Issue represents a single problem in a definition file, in golangci-lint format
type Issue struct {
	FromLinter  string       `json:"FromLinter"`  // "gradcolor"
	Text        string       `json:"Text"`        // "invalid color \"#ggg\""
	Severity    string       `json:"Severity"`    // "", "warning", "error"
	SourceLines []string     `json:"SourceLines"` // Lines of the file around the issue
	Pos         IssuePos     `json:"Pos"`         // File location
	Gradient    string       `json:"Gradient"`    // Name of the gradient the issue belongs to
	Replacement *Replacement `json:"Replacement"` // Optional fix suggestion
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "design/gradients/brand.yaml"
	Line     int    `json:"Line"`     // 12
	Column   int    `json:"Column"`   // 9 (1-based, start of the offending key)
}

// Replacement is the value the builder uses in place of the written one
type Replacement struct {
	NewText string
}

// IssueSeverity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = ""
)

// Issue texts
const (
	IssueParse           = "cannot parse definitions: %v"
	IssueNoGradients     = "file defines no gradients"
	IssueMissingName     = "gradient has no name"
	IssueDuplicateName   = "gradient %q is already defined at %s"
	IssueUnknownType     = "unknown gradient type %q (want one of %s)"
	IssueUnusedAngle     = "angle has no effect on %s gradients"
	IssueStopCount       = "gradient has %d color stops, want %d to %d"
	IssueInvalidColor    = "invalid color %q renders as black"
	IssueColorAlpha      = "color %q is translucent; gradients use opaque stops"
	IssueDuplicateStopID = "duplicate stop id %q"
	IssueOutOfRange      = "%s %s is outside %v..%v and will be clamped"
)
