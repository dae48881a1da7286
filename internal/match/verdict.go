package match

import "github.com/ppiankov/esgtrace/internal/model"

// DefaultVerdictThreshold is the score a verdict side must exceed
const DefaultVerdictThreshold = 0.55

// Scores returns the best support and contradict similarities in items
func Scores(items []model.EvidenceItem) (support, contradict float64) {
	for _, it := range items {
		switch it.Label {
		case model.LabelSupport:
			if it.Score > support {
				support = it.Score
			}
		case model.LabelContradict:
			if it.Score > contradict {
				contradict = it.Score
			}
		}
	}
	return support, contradict
}

type verdictRule struct {
	name    string
	verdict model.Verdict
	applies func(support, contradict, threshold float64) bool
}

// verdictRules are checked in order. Both sides need a strict lead, so
// equal scores fall through to insufficient.
var verdictRules = []verdictRule{
	{"contradict_leads", model.VerdictContradicted, func(s, c, th float64) bool {
		return c > s && c > th
	}},
	{"support_leads", model.VerdictSupported, func(s, c, th float64) bool {
		return s > c && s > th
	}},
}

// DecideVerdict arbitrates the support/contradict score pair
func DecideVerdict(support, contradict, threshold float64) model.Verdict {
	for _, rule := range verdictRules {
		if rule.applies(support, contradict, threshold) {
			return rule.verdict
		}
	}
	return model.VerdictInsufficient
}
