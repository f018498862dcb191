package mrz

import (
	"regexp"
	"strings"
	"unicode"
)

var mrzLinePattern = regexp.MustCompile(`^[A-Z0-9<]{30,44}$`)

// SelectLines isolates MRZ-looking lines from raw OCR text. Lines are
// upper-cased and stripped of whitespace before matching. When more lines
// qualify than a layout needs, the trailing block that fits TD3 or TD1 wins,
// since the zone sits at the bottom of the page.
func SelectLines(rawText string) []string {
	var selected []string
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return unicode.ToUpper(r)
		}, line)
		if mrzLinePattern.MatchString(line) && strings.Contains(line, "<") {
			selected = append(selected, line)
		}
	}

	n := len(selected)
	switch {
	case n > 2 && len(selected[n-1]) == td3Length && len(selected[n-2]) == td3Length:
		return selected[n-2:]
	case n > 3 && len(selected[n-1]) == td1Length && len(selected[n-2]) == td1Length && len(selected[n-3]) == td1Length:
		return selected[n-3:]
	}
	return selected
}
