package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/talgya/tribute-arena/internal/agents"
)

// Finding is one problem Lint found.
type Finding struct {
	Pool       string
	Text       string
	Problem    string
	Suggestion string
}

func (f Finding) String() string {
	s := fmt.Sprintf("[%s] %q: %s", f.Pool, f.Text, f.Problem)
	if f.Suggestion != "" {
		s += fmt.Sprintf(" (did you mean %q?)", f.Suggestion)
	}
	return s
}

// Lint checks every event for invalid indices and unknown item names.
func Lint(c *Catalog) []Finding {
	var findings []Finding
	c.Events(func(pool string, e *Event) {
		if err := e.Validate(); err != nil {
			findings = append(findings, Finding{Pool: pool, Text: e.Text, Problem: err.Error()})
		}
		seen := map[string]bool{}
		items := append(append(append([]string(nil), e.ItemGain...), e.ItemRequired...), e.Consume.Items...)
		for _, item := range items {
			if seen[item] || agents.KnownItem(item) {
				continue
			}
			seen[item] = true
			f := Finding{Pool: pool, Text: e.Text, Problem: fmt.Sprintf("unknown item %q", item)}
			if match, ok := ResolveItem(item); ok {
				f.Suggestion = match
			}
			findings = append(findings, f)
		}
		if e.Consume.Mode == ConsumeSubset {
			for _, item := range e.Consume.Items {
				if !containsItem(e.ItemRequired, item) {
					findings = append(findings, Finding{
						Pool:    pool,
						Text:    e.Text,
						Problem: fmt.Sprintf("consumes %q without requiring it", item),
					})
				}
			}
		}
	})
	for i, a := range c.Arena {
		if a.Text == "" {
			findings = append(findings, Finding{Pool: "arena", Text: fmt.Sprintf("#%d", i), Problem: "empty text"})
		}
	}
	return findings
}

// ResolveItem maps a loosely typed name onto the item table: an exact
// case-insensitive match, else the closest name within a small edit
// distance.
func ResolveItem(name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}

	names := make([]string, 0, len(agents.ItemValues))
	for item := range agents.ItemValues {
		names = append(names, item)
	}
	sort.Strings(names)

	best, bestDist := "", -1
	for _, item := range names {
		lower := strings.ToLower(item)
		if lower == needle {
			return item, true
		}
		dist := levenshtein.ComputeDistance(needle, lower)
		if dist > levenshteinLimit(len(lower)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = item, dist
		}
	}
	return best, bestDist >= 0
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func containsItem(items []string, item string) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}
