package extraction

import (
	"regexp"
	"strings"
)

const DefaultMarker = "@Todo"

// Detector classifies message text as task-eligible by looking for a
// single marker token, case-insensitively. Pure, no failure mode.
type Detector struct {
	marker  string
	pattern *regexp.Regexp
}

func NewDetector(marker string) Detector {
	if marker == "" {
		marker = DefaultMarker
	}
	return Detector{
		marker:  marker,
		pattern: regexp.MustCompile("(?i)" + regexp.QuoteMeta(marker)),
	}
}

func (d Detector) Marker() string {
	return d.marker
}

func (d Detector) Detect(text string) bool {
	return d.pattern.MatchString(text)
}

// Strip removes every occurrence of the marker (any casing) and trims
// the remainder. Used for the degraded fallback description. Matching
// happens in the original string, never on a case-mapped copy: case
// mapping can change byte lengths and misalign offsets.
func (d Detector) Strip(text string) string {
	return strings.TrimSpace(d.pattern.ReplaceAllString(text, ""))
}
