package gradgen

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"go.yaml.in/yaml/v3"
)

// FileLocation tracks where an entry was found in a definition file
type FileLocation struct {
	File   string
	Line   int
	Column int    // 1-based column of the key
	Text   string // Full line content for source display
}

// ScanStats tracks file scanning statistics
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files actually scanned (after filtering)
	FilesSkipped    int // Files skipped due to filtering
}

var (
	// gitignore caching
	gitIgnoreCache *ignore.GitIgnore
	gitIgnoreOnce  sync.Once
)

// isEditorArtifact checks for swap and backup files editors leave next to
// the real definition file
func isEditorArtifact(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasPrefix(base, ".#")
}

// loadGitIgnore loads the .gitignore file once (thread-safe)
// Gracefully degrades if .gitignore doesn't exist
func loadGitIgnore() *ignore.GitIgnore {
	gitIgnoreOnce.Do(func() {
		gi, err := ignore.CompileIgnoreFile(".gitignore")
		if err != nil {
			gitIgnoreCache = nil
			return
		}
		gitIgnoreCache = gi
	})
	return gitIgnoreCache
}

// shouldSkipFile determines if a file should be excluded from scanning
//
// Two-layer filtering:
// 1. Pattern check (fast): Skip editor swap and backup files
// 2. Gitignore check: Skip gitignored files (only for relative paths)
func shouldSkipFile(path string) bool {
	if isEditorArtifact(path) {
		return true
	}

	// Absolute paths (like /tmp/...) are outside the project gitignore
	if !filepath.IsAbs(path) {
		gi := loadGitIgnore()
		if gi != nil && gi.MatchesPath(path) {
			return true
		}
	}

	return false
}

// ScanDefinitionFiles finds definition files under sourceDir matching the
// include patterns.
func ScanDefinitionFiles(sourceDir string, includes []string) ([]string, ScanStats, error) {
	patterns := make([]string, len(includes))
	for i, pattern := range includes {
		patterns[i] = filepath.Join(sourceDir, pattern)
	}
	return expandGlobPatternsWithStats(patterns)
}

// expandGlobPatternsWithStats expands globs, deduplicates, filters and
// tracks statistics
func expandGlobPatternsWithStats(patterns []string) ([]string, ScanStats, error) {
	var allFiles []string
	seen := make(map[string]bool)
	stats := ScanStats{}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, err
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			seen[match] = true
			stats.FilesDiscovered++

			if shouldSkipFile(match) {
				stats.FilesSkipped++
				continue
			}
			allFiles = append(allFiles, match)
			stats.FilesScanned++
		}
	}

	return allFiles, stats, nil
}

// definitionIndex records where gradient entries, stops and their keys
// start in a definition file
type definitionIndex struct {
	lines     []string
	root      FileLocation
	gradients []gradientEntry
}

type gradientEntry struct {
	loc    FileLocation
	fields map[string]FileLocation
	stops  []StopLocation
}

// indexDefinitionFile parses path into a YAML node tree and records the
// positions of the gradient list. Block and flow style are both covered.
func indexDefinitionFile(path string) (*definitionIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	idx := &definitionIndex{
		lines: splitLines(string(data)),
		root:  FileLocation{File: path, Line: 1, Column: 1},
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return idx, nil
	}

	key, list := mappingValue(doc.Content[0], DefinitionsKey)
	if key == nil {
		return idx, nil
	}
	idx.root = idx.location(path, key)
	if list.Kind != yaml.SequenceNode {
		return idx, nil
	}

	for _, item := range list.Content {
		entry := gradientEntry{loc: idx.location(path, item), fields: map[string]FileLocation{}}
		idx.eachKey(path, item, func(name string, loc FileLocation, value *yaml.Node) {
			entry.fields[name] = loc
			if name != "stops" || value.Kind != yaml.SequenceNode {
				return
			}
			for _, stop := range value.Content {
				sl := StopLocation{FileLocation: idx.location(path, stop), Fields: map[string]FileLocation{}}
				idx.eachKey(path, stop, func(field string, loc FileLocation, _ *yaml.Node) {
					sl.Fields[field] = loc
				})
				entry.stops = append(entry.stops, sl)
			}
		})
		idx.gradients = append(idx.gradients, entry)
	}
	return idx, nil
}

// eachKey calls fn for every scalar key of a mapping node
func (idx *definitionIndex) eachKey(path string, n *yaml.Node, fn func(string, FileLocation, *yaml.Node)) {
	if n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if key.Kind != yaml.ScalarNode {
			continue
		}
		fn(key.Value, idx.location(path, key), n.Content[i+1])
	}
}

// location converts a node position into a FileLocation with its source line
func (idx *definitionIndex) location(path string, n *yaml.Node) FileLocation {
	loc := FileLocation{File: path, Line: n.Line, Column: n.Column}
	if n.Line > 0 && n.Line <= len(idx.lines) {
		loc.Text = idx.lines[n.Line-1]
	}
	return loc
}

// mappingValue returns the key and value nodes for name in a mapping node
func mappingValue(n *yaml.Node, name string) (key, value *yaml.Node) {
	if n.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Kind == yaml.ScalarNode && n.Content[i].Value == name {
			return n.Content[i], n.Content[i+1]
		}
	}
	return nil, nil
}

// splitLines returns the source lines without line endings or trailing
// whitespace
func splitLines(text string) []string {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return lines
}

// attach copies entry locations onto decoded definitions. Entries the
// index has no position for point at the gradients key.
func (idx *definitionIndex) attach(defs []Definition) {
	for i := range defs {
		defs[i].Location = idx.root
		if i >= len(idx.gradients) {
			continue
		}
		entry := idx.gradients[i]
		defs[i].Location = entry.loc
		defs[i].FieldLocation = entry.fields
		defs[i].StopLocations = entry.stops
	}
}

// GetRelativePath returns a relative path from the current working directory
func GetRelativePath(absPath string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return absPath
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil {
		return absPath
	}

	return rel
}
