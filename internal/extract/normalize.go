package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/esgtrace/internal/lexicon"
	"github.com/ppiankov/esgtrace/internal/model"
)

var kgWord = regexp.MustCompile(`(?i)\bkg\b`)

// Normalizer re-applies the current tables to already extracted claims:
// it fills a missing unit from the claim text, re-normalizes units and
// re-maps unknown metrics. ClaimID is left untouched so verification
// records stay addressable.
type Normalizer struct {
	units   lexicon.UnitTable
	aliases lexicon.MetricAliases
}

// NewNormalizer creates a normalizer over the given tables
func NewNormalizer(tables *lexicon.Tables) *Normalizer {
	return &Normalizer{units: tables.Units, aliases: tables.MetricAliases}
}

// Normalize returns the normalized claim and whether anything changed
func (n *Normalizer) Normalize(claim model.Claim) (model.Claim, bool) {
	changed := false

	if claim.Unit == "" {
		if inferred := InferUnit(claim.ClaimText); inferred != "" {
			claim.Unit = n.units.Normalize(inferred)
			changed = true
		}
	}

	if claim.Unit != "" && claim.Unit != model.UnitYear {
		if unit := n.units.Normalize(claim.Unit); unit != claim.Unit {
			claim.Unit = unit
			changed = true
		}
	}

	if claim.Metric == "" || claim.Metric == model.MetricUnknown {
		if metric, ok := n.aliases.Lookup(claim.ClaimText); ok {
			claim.Metric = metric
			changed = true
		}
	}

	return claim, changed
}

// InferUnit guesses a raw unit from free text
func InferUnit(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "%") || strings.Contains(lower, "percent"):
		return "percent"
	case strings.Contains(lower, "tco2e"):
		return "tco2e"
	case strings.Contains(lower, "tonne") || strings.Contains(lower, "tons"):
		return "tonnes"
	case kgWord.MatchString(lower):
		return "kg"
	default:
		return ""
	}
}
