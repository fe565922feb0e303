package build

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Source data concatenates cast names without separators, e.g.
	// "Tom CruiseHayley AtwellVing Rhames". A lower-to-upper case boundary
	// marks the seam between two names.
	boundaryRe = regexp.MustCompile(`([a-z])([A-Z])`)
)

// namePrefixes are surname particles that a naive case-boundary split tears
// off the following fragment ("Robert De" + "Niro").
var namePrefixes = map[string]bool{
	"Mc":  true,
	"Mac": true,
	"De":  true,
	"Di":  true,
	"Le":  true,
	"La":  true,
	"Van": true,
	"Von": true,
	"O'":  true,
}

// SplitStarCast tears a concatenated cast string apart into individual
// names. This is a heuristic, not a perfect name tokenizer: it splits on
// lowercase-to-uppercase boundaries and re-merges fragments ending in a
// known surname particle.
func SplitStarCast(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	s = whitespaceRe.ReplaceAllString(s, " ")
	split := boundaryRe.ReplaceAllString(s, "$1\x00$2")

	var parts []string
	for _, p := range strings.Split(split, "\x00") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) <= 1 {
		return parts
	}

	var merged []string
	for i := 0; i < len(parts); i++ {
		part := parts[i]
		if i+1 < len(parts) {
			tokens := strings.Fields(part)
			if len(tokens) > 0 && namePrefixes[tokens[len(tokens)-1]] {
				part = strings.TrimSpace(part + " " + strings.TrimLeft(parts[i+1], " "))
				i++
			}
		}
		merged = append(merged, part)
	}
	return merged
}
