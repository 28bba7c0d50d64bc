package hierarchy

import (
	"strings"

	"github.com/agentstation/dicomstd/pkg/constants"
)

// Markers returns the leading run of marker characters in name, ignoring
// surrounding whitespace.
func Markers(name string) string {
	return markers(name, constants.HierarchyMarker)
}

// Depth returns the nesting depth encoded in name: the number of leading
// marker characters. A name without markers is at depth 0.
func Depth(name string) int {
	return len(Markers(name))
}

// CleanField removes every marker character from s and trims whitespace.
func CleanField(s string) string {
	return clean(s, constants.HierarchyMarker)
}

// Segments splits a hierarchical id into its path segments, module first.
func Segments(id string) []string {
	if id == "" {
		return nil
	}
	return strings.Split(id, constants.IDSeparator)
}

// ParentID returns the id of the parent of id. The second result is false
// for a bare module id, which has no parent.
func ParentID(id string) (string, bool) {
	i := strings.LastIndex(id, constants.IDSeparator)
	if i < 0 {
		return "", false
	}
	return id[:i], true
}

func markers(name string, marker rune) string {
	trimmed := strings.TrimSpace(name)
	rest := strings.TrimLeft(trimmed, string(marker))
	return trimmed[:len(trimmed)-len(rest)]
}

func clean(s string, marker rune) string {
	return strings.TrimSpace(strings.ReplaceAll(s, string(marker), ""))
}
