package typescaffold

import (
	"path/filepath"
	"strings"
)

// IsEmpty reports whether no include or exclude pattern is set.
func (p TablePatterns) IsEmpty() bool {
	return len(p.Include) == 0 && len(p.Exclude) == 0
}

// Includes reports whether table passes the include and exclude patterns.
// Exclusion wins; an empty include list admits every table.
func (p TablePatterns) Includes(table string) bool {
	for _, pattern := range p.Exclude {
		if MatchWildcard(pattern, table) {
			return false
		}
	}

	if len(p.Include) == 0 {
		return true
	}

	for _, pattern := range p.Include {
		if MatchWildcard(pattern, table) {
			return true
		}
	}

	return false
}

// MatchWildcard performs simple wildcard matching with * character
func MatchWildcard(pattern, text string) bool {
	// If no wildcard, do exact match
	if !strings.Contains(pattern, "*") {
		return pattern == text
	}

	matched, err := filepath.Match(pattern, text)
	if err != nil {
		// If pattern is invalid, fall back to exact match
		return pattern == text
	}

	return matched
}
