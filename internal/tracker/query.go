package tracker

import (
	"sort"
	"strings"
)

// AllTypes matches every type in a Query.
const AllTypes = "All"

// Query narrows a frame the way the dashboard filters do.
type Query struct {
	// Search is a case-insensitive substring of the name; empty matches all.
	Search string
	// Type must equal the record's type exactly; empty or AllTypes matches all.
	Type string
}

// Filter returns the records of frame matching q, in frame order.
func Filter(frame Frame, q Query) []PositionRecord {
	search := strings.ToLower(q.Search)
	anyType := q.Type == "" || q.Type == AllTypes

	out := make([]PositionRecord, 0, len(frame.Records))
	for _, r := range frame.Records {
		if search != "" && !strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		if !anyType && r.Type != q.Type {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Types returns the distinct type tags present in frame, sorted.
func Types(frame Frame) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range frame.Records {
		if !seen[r.Type] {
			seen[r.Type] = true
			out = append(out, r.Type)
		}
	}
	sort.Strings(out)
	return out
}

// Lookup returns the first record named exactly name.
func Lookup(frame Frame, name string) (PositionRecord, bool) {
	for _, r := range frame.Records {
		if r.Name == name {
			return r, true
		}
	}
	return PositionRecord{}, false
}
