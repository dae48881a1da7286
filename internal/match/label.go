package match

import (
	"math"
	"strings"

	"github.com/ppiankov/esgtrace/internal/extract"
	"github.com/ppiankov/esgtrace/internal/model"
)

// Fixed decision constants of the labelling chain
const (
	percentContradictRel = 0.10 // Relative gap for a percent contradiction
	percentContradictSim = 0.5  // Similarity a percent contradiction needs
	absContradictFactor  = 3    // Multiple of the fractional tolerance
	absContradictSim     = 0.55 // Similarity a non-percent contradiction needs
	similaritySupport    = 0.75 // Similarity-only support floor
)

var (
	increaseCues = []string{"increase", "increased", "rising"}
	reduceCue    = "reduce"
)

// Tolerances bound numeric agreement between a claim and a snippet
type Tolerances struct {
	PercentAbs float64 // Percentage points
	AbsFrac    float64 // Relative difference for every other unit
}

// candidate is everything a rule may look at for one claim/snippet pair
type candidate struct {
	claim       model.Claim
	snippetText string
	snippetNum  *float64
	similarity  float64
}

// labelRule returns a label and true when it decides the pair
type labelRule struct {
	name   string
	decide func(c candidate, tol Tolerances) (model.EvidenceLabel, bool)
}

// labelRules are evaluated in order; the first that decides wins
var labelRules = []labelRule{
	{"numeric", numericRule},
	{"lexical_cue", lexicalRule},
	{"similarity", similarityRule},
}

// Label classifies snippetText as evidence for claim at the given similarity
func Label(claim model.Claim, snippetText string, similarity float64, tol Tolerances) model.EvidenceLabel {
	label, _ := labelWithRule(claim, snippetText, similarity, tol)
	return label
}

// labelWithRule also reports which rule decided
func labelWithRule(claim model.Claim, snippetText string, similarity float64, tol Tolerances) (model.EvidenceLabel, string) {
	c := candidate{claim: claim, snippetText: snippetText, similarity: similarity}
	if num, ok := extract.ExtractEvidenceNumber(snippetText); ok {
		c.snippetNum = model.Float(num.Value)
	}

	for _, rule := range labelRules {
		if label, ok := rule.decide(c, tol); ok {
			return label, rule.name
		}
	}
	return model.LabelInsufficient, ""
}

func numericRule(c candidate, tol Tolerances) (model.EvidenceLabel, bool) {
	if !c.claim.HasValue() || c.snippetNum == nil {
		return "", false
	}

	claimVal := c.claim.Value()
	diff := math.Abs(claimVal - *c.snippetNum)
	rel := diff / math.Max(math.Abs(claimVal), 1.0)

	if strings.Contains(strings.ToLower(c.claim.Unit), "percent") {
		switch {
		case diff <= tol.PercentAbs:
			return model.LabelSupport, true
		case rel > percentContradictRel && c.similarity > percentContradictSim:
			return model.LabelContradict, true
		default:
			return model.LabelInsufficient, true
		}
	}

	switch {
	case rel <= tol.AbsFrac:
		return model.LabelSupport, true
	case rel > tol.AbsFrac*absContradictFactor && c.similarity > absContradictSim:
		return model.LabelContradict, true
	default:
		return model.LabelInsufficient, true
	}
}

func lexicalRule(c candidate, _ Tolerances) (model.EvidenceLabel, bool) {
	snippet := strings.ToLower(c.snippetText)
	claim := strings.ToLower(c.claim.ClaimText)
	if containsAny(snippet, increaseCues) && strings.Contains(claim, reduceCue) {
		return model.LabelContradict, true
	}
	return "", false
}

// similarityRule never contradicts: similarity alone cannot show a conflict
func similarityRule(c candidate, _ Tolerances) (model.EvidenceLabel, bool) {
	if c.similarity >= similaritySupport {
		return model.LabelSupport, true
	}
	return model.LabelInsufficient, true
}
