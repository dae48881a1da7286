package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches a decimal, with optional thousands separators
const numberPattern = `(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`

// percentUnit accepts a bare percent sign (no word boundary needed after
// punctuation) or a percent word ending on a word boundary
const percentUnit = `(%|(?:percent|percentage|pp)\b)`

// numericExtractors are tried in priority order: percentages, then mass
// units, then any number. Percent and mass numbers carry the claim and must
// not be shadowed by incidental numbers such as years.
var numericExtractors = []struct {
	name string
	re   *regexp.Regexp
}{
	{"percent", regexp.MustCompile(`(?i)` + numberPattern + `\s*` + percentUnit)},
	{"mass", regexp.MustCompile(`(?i)` + numberPattern + `\s*(tco2e|tonnes?|tons?|kg|g)\b`)},
	{"bare", regexp.MustCompile(numberPattern + `\b`)},
}

// evidenceNumber is the lightweight "number + unit" scan applied to
// candidate evidence snippets. Bare numbers are not considered.
var evidenceNumber = regexp.MustCompile(`(?i)` + numberPattern + `\s*(%|(?:percent|percentage|tco2e|tonnes?|tons?|kg)\b)`)

var wellFormedDecimal = regexp.MustCompile(`^\d+(\.\d+)?$`)

// Numeric is a parsed number with the raw unit that followed it
type Numeric struct {
	Value   float64
	RawUnit string // Lower-cased, empty for bare numbers
	Rule    string // Extractor that produced it
}

// ExtractNumeric returns the best number in text by extractor priority
func ExtractNumeric(text string) (Numeric, bool) {
	for _, ex := range numericExtractors {
		m := ex.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, ok := ParseNumber(m[1])
		if !ok {
			continue
		}
		unit := ""
		if len(m) > 2 {
			unit = strings.ToLower(m[2])
		}
		return Numeric{Value: value, RawUnit: unit, Rule: ex.name}, true
	}
	return Numeric{}, false
}

// ExtractEvidenceNumber returns the first number followed by a percent or
// mass unit in an evidence snippet
func ExtractEvidenceNumber(text string) (Numeric, bool) {
	for _, m := range evidenceNumber.FindAllStringSubmatch(text, -1) {
		if value, ok := ParseNumber(m[1]); ok {
			return Numeric{Value: value, RawUnit: strings.ToLower(m[2]), Rule: "evidence"}, true
		}
	}
	return Numeric{}, false
}

// ParseNumber parses a decimal, ignoring thousands separators
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if !wellFormedDecimal.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// firstDecimal returns the first capture group that is a well-formed decimal
func firstDecimal(groups []string) (float64, bool) {
	for _, g := range groups {
		if g == "" {
			continue
		}
		if v, ok := ParseNumber(g); ok {
			return v, true
		}
	}
	return 0, false
}
