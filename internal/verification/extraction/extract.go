package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"docverify-workers/internal/models"
)

// PatternConfidence is assigned to every value found by a pattern.
const PatternConfidence = 75

var (
	isoDate      = regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}$`)
	dayFirstDate = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{4})$`)
)

// Fields maps field names to what the rule table found. Missing keys mean
// no pattern matched.
type Fields map[string]models.ExtractedField

// Get returns the field or an empty one.
func (f Fields) Get(name string) models.ExtractedField {
	return f[name]
}

// Extract applies the table to text. For every field the first matching
// pattern, in table order, wins.
func Extract(text string, table RuleTable) Fields {
	out := make(Fields)
	for _, rule := range table {
		if _, done := out[rule.Field]; done {
			continue
		}
		value, ok := firstMatch(text, rule.Patterns)
		if !ok {
			continue
		}
		if rule.Date {
			value = NormalizeDate(value)
		}
		if field := models.NewField(value, PatternConfidence); !field.IsEmpty() {
			out[rule.Field] = field
		}
	}
	return out
}

func firstMatch(text string, patterns []*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := m[0]
		if len(m) > 1 {
			value = m[1]
		}
		if value = strings.TrimSpace(value); value != "" {
			return value, true
		}
	}
	return "", false
}

// NormalizeDate converts a matched date to YYYY-MM-DD. Year-first values are
// kept as they are; everything else is read day first (DD/MM/YYYY), never
// month first. Text in neither shape is returned unchanged.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if isoDate.MatchString(s) {
		return s
	}
	m := dayFirstDate.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
}
