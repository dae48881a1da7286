package extract

import "math"

const (
	BaseConfidence = 0.25 // Every emitted claim starts here
	EntityBonus    = 0.35 // A PERCENT, CARDINAL or QUANTITY entity was recognized
	PatternBonus   = 0.35 // A domain pattern matched
	MaxConfidence  = 0.99
)

// ConfidenceSignals are the inputs of the confidence heuristic
type ConfidenceSignals struct {
	NumericEntity  bool
	PatternMatched bool
}

// confidenceRule adds Bonus when Applies holds. Rules are evaluated in
// order and are independent of each other.
type confidenceRule struct {
	Name    string
	Bonus   float64
	Applies func(ConfidenceSignals) bool
}

var confidenceRules = []confidenceRule{
	{Name: "numeric_entity", Bonus: EntityBonus, Applies: func(s ConfidenceSignals) bool { return s.NumericEntity }},
	{Name: "pattern_matched", Bonus: PatternBonus, Applies: func(s ConfidenceSignals) bool { return s.PatternMatched }},
}

// Confidence scores a claim. The result is one of three tiers:
// 0.25 (base), 0.60 (one signal) or 0.95 (both), capped at 0.99.
func Confidence(s ConfidenceSignals) float64 {
	conf := BaseConfidence
	for _, rule := range confidenceRules {
		if rule.Applies(s) {
			conf += rule.Bonus
		}
	}
	conf = math.Min(conf, MaxConfidence)
	return math.Round(conf*100) / 100
}
