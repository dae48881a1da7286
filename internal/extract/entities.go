package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// EntityLabel is the type of a recognized numeric entity
type EntityLabel string

const (
	EntityPercent  EntityLabel = "PERCENT"
	EntityQuantity EntityLabel = "QUANTITY"
	EntityCardinal EntityLabel = "CARDINAL"
	EntityDate     EntityLabel = "DATE"
)

// Entity is one recognized span
type Entity struct {
	Label EntityLabel
	Text  string
	Start int
	End   int
}

var (
	entityNumber = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?`)
	numberWords  = regexp.MustCompile(`(?i)\b(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|twenty|thirty|forty|fifty|hundred|thousand|million|billion|dozen)\b`)
	magnitude    = regexp.MustCompile(`(?i)^\s*(thousand|million|billion|mn|bn|lakh|crore)\b`)
	percentAfter = regexp.MustCompile(`(?i)^\s*(%|per\s?cent\b|percent(age)?\b|pp\b)`)
)

// quantityUnits are unit words that turn a number into a QUANTITY
var quantityUnits = []string{
	"tco2e", "mtco2e", "ktco2e", "tonnes", "tonne", "tons", "ton", "t",
	"kg", "g", "mwh", "gwh", "kwh", "twh", "mw", "gw", "gj", "tj",
	"kl", "kilolitres", "kilolitre", "litres", "liters", "megalitres", "m3",
	"hectares", "ha", "km", "acres", "employees", "hours",
}

// EntityRecognizer is a rule-based numeric entity tagger. It only knows the
// labels the confidence heuristic cares about.
type EntityRecognizer struct {
	unitRe *regexp.Regexp
}

// NewEntityRecognizer creates a recognizer with the built-in unit words
func NewEntityRecognizer() *EntityRecognizer {
	return &EntityRecognizer{
		unitRe: regexp.MustCompile(`(?i)^\s*(` + strings.Join(quantityUnits, "|") + `)\b`),
	}
}

// Recognize tags the numeric entities in text, in order of appearance
func (r *EntityRecognizer) Recognize(text string) []Entity {
	var entities []Entity

	for _, loc := range entityNumber.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		// Digits glued to letters ("CO2", "Q3") are part of a token, not a number
		if start > 0 && isLetterBefore(text, start) {
			continue
		}

		raw := text[start:end]
		rest := text[end:]
		label := EntityCardinal

		if m := magnitude.FindStringIndex(rest); m != nil {
			end += m[1]
			rest = text[end:]
		}

		switch {
		case percentAfter.MatchString(rest):
			label = EntityPercent
			end += percentAfter.FindStringIndex(rest)[1]
		case r.unitRe.MatchString(rest):
			label = EntityQuantity
			end += r.unitRe.FindStringIndex(rest)[1]
		case isYear(raw):
			label = EntityDate
		}

		entities = append(entities, Entity{Label: label, Text: text[start:end], Start: start, End: end})
	}

	numeric := len(entities)
	for _, loc := range numberWords.FindAllStringIndex(text, -1) {
		if overlaps(entities[:numeric], loc[0], loc[1]) {
			continue
		}
		entities = append(entities, Entity{
			Label: EntityCardinal,
			Text:  text[loc[0]:loc[1]],
			Start: loc[0],
			End:   loc[1],
		})
	}

	return entities
}

// HasAny reports whether entities contain any of labels
func HasAny(entities []Entity, labels ...EntityLabel) bool {
	for _, e := range entities {
		for _, l := range labels {
			if e.Label == l {
				return true
			}
		}
	}
	return false
}

func overlaps(entities []Entity, start, end int) bool {
	for _, e := range entities {
		if start < e.End && end > e.Start {
			return true
		}
	}
	return false
}

func isYear(raw string) bool {
	if len(raw) != 4 {
		return false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return false
	}
	return n >= 1800 && n < 2200
}

func isLetterBefore(text string, idx int) bool {
	for i := idx - 1; i >= 0; i-- {
		if text[i] < 0x80 {
			return unicode.IsLetter(rune(text[i]))
		}
		// Walk back to the start of a multi-byte rune
		if text[i]&0xC0 == 0xC0 {
			r := []rune(text[i:idx])
			return len(r) > 0 && unicode.IsLetter(r[0])
		}
	}
	return false
}
