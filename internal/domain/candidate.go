package domain

import (
	"regexp"
	"strings"
)

var labelRegexp = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// ValidLabel reports whether s is a lowercase LDH label usable as the left
// side of a registrable domain.
func ValidLabel(s string) bool {
	return labelRegexp.MatchString(s)
}

// NormalizeLabel lowercases and trims s, dropping a trailing ".suffix" when
// present. The result is not validated.
func NormalizeLabel(s, suffix string) string {
	label := strings.ToLower(strings.TrimSpace(s))
	suffix = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(suffix)), ".")
	if suffix != "" {
		label = strings.TrimSuffix(label, "."+suffix)
	}
	return label
}

// DomainName joins a candidate label and a suffix.
func DomainName(candidate, suffix string) string {
	suffix = strings.TrimPrefix(suffix, ".")
	if suffix == "" {
		return candidate
	}
	return candidate + "." + suffix
}

// Dedupe returns candidates with repeats removed, keeping first occurrences
// in their original order.
func Dedupe(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
