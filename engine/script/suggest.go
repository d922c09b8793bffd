package script

import (
	"fmt"
	"regexp"

	"github.com/agnivade/levenshtein"
)

var namespaceRef = regexp.MustCompile(`\bTHREE\.([A-Za-z_$][A-Za-z0-9_$]*)`)

// hinter points at namespace members a program used but that do not exist.
type hinter struct {
	source string
	names  []string
}

func (h *hinter) hint(string) string {
	if h == nil {
		return ""
	}
	known := make(map[string]bool, len(h.names))
	for _, n := range h.names {
		known[n] = true
	}
	for _, m := range namespaceRef.FindAllStringSubmatch(h.source, -1) {
		name := m[1]
		if known[name] {
			continue
		}
		if best := closest(name, h.names); best != "" {
			return fmt.Sprintf("THREE.%s is not available; did you mean THREE.%s?", name, best)
		}
		return fmt.Sprintf("THREE.%s is not available", name)
	}
	return ""
}

// closest returns the candidate nearest to name, or "" when nothing is near
// enough to be a plausible typo.
func closest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := max(2, len(name)/3)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
