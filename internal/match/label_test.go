package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/esgtrace/internal/model"
)

var defaultTol = Tolerances{PercentAbs: 2.0, AbsFrac: 0.05}

func percentClaim(v float64) model.Claim {
	return model.Claim{
		ClaimID:      "claim_x_1",
		ClaimText:    "Renewable share reached 50% of electricity",
		NumericValue: model.Float(v),
		Unit:         "percent",
	}
}

func TestLabel_PercentToleranceBoundary(t *testing.T) {
	claim := percentClaim(50.0)

	assert.Equal(t, model.LabelSupport, Label(claim, "Auditors found renewables at 52.0% of supply", 0.3, defaultTol))
	assert.NotEqual(t, model.LabelSupport, Label(claim, "Auditors found renewables at 52.1% of supply", 0.3, defaultTol))
}

func TestLabel_PercentContradiction(t *testing.T) {
	claim := percentClaim(50.0)

	// 20% relative gap needs similarity above 0.5 to contradict
	assert.Equal(t, model.LabelContradict, Label(claim, "Renewables were only 40% of supply", 0.6, defaultTol))
	assert.Equal(t, model.LabelInsufficient, Label(claim, "Renewables were only 40% of supply", 0.5, defaultTol))
}

func TestLabel_RelativeTolerance(t *testing.T) {
	claim := model.Claim{
		ClaimText:    "Scope 1 emissions were 1000 tonnes",
		NumericValue: model.Float(1000),
		Unit:         "tonnes",
	}

	tests := []struct {
		name    string
		snippet string
		sim     float64
		want    model.EvidenceLabel
	}{
		{"within 5%", "Emissions of 1040 tonnes were reported", 0.1, model.LabelSupport},
		{"gap over 15% with similarity", "Emissions of 1200 tonnes were reported", 0.6, model.LabelContradict},
		{"gap over 15% low similarity", "Emissions of 1200 tonnes were reported", 0.55, model.LabelInsufficient},
		{"between tolerances", "Emissions of 1100 tonnes were reported", 0.9, model.LabelInsufficient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(claim, tt.snippet, tt.sim, defaultTol))
		})
	}
}

func TestLabel_Precedence(t *testing.T) {
	reduce := model.Claim{ClaimText: "We reduced emissions sharply"}

	label, rule := labelWithRule(reduce, "Emissions increased at the main plant", 0.9, defaultTol)
	assert.Equal(t, model.LabelContradict, label)
	assert.Equal(t, "lexical_cue", rule)

	// Numeric comparison outranks lexical cues
	withValue := model.Claim{ClaimText: "We reduced emissions by 30%", NumericValue: model.Float(30), Unit: "percent"}
	label, rule = labelWithRule(withValue, "Emissions increased but fell 30% overall", 0.2, defaultTol)
	assert.Equal(t, model.LabelSupport, label)
	assert.Equal(t, "numeric", rule)
}

func TestLabel_SimilarityOnlyNeverContradicts(t *testing.T) {
	claim := model.Claim{ClaimText: "Board independence improved"}

	assert.Equal(t, model.LabelSupport, Label(claim, "The board is independent", 0.75, defaultTol))
	assert.Equal(t, model.LabelInsufficient, Label(claim, "The board is independent", 0.7, defaultTol))
	assert.Equal(t, model.LabelInsufficient, Label(claim, "The board is independent", 0.1, defaultTol))
}

func TestDecideVerdict(t *testing.T) {
	tests := []struct {
		name       string
		support    float64
		contradict float64
		want       model.Verdict
	}{
		{"tie resolves insufficient", 0.6, 0.6, model.VerdictInsufficient},
		{"support leads", 0.8, 0.2, model.VerdictSupported},
		{"contradict leads", 0.3, 0.7, model.VerdictContradicted},
		{"support at threshold", 0.55, 0, model.VerdictInsufficient},
		{"contradict below threshold", 0, 0.5, model.VerdictInsufficient},
		{"nothing", 0, 0, model.VerdictInsufficient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideVerdict(tt.support, tt.contradict, 0.55))
		})
	}
}

func TestScores(t *testing.T) {
	items := []model.EvidenceItem{
		{Score: 0.4, Label: model.LabelSupport},
		{Score: 0.7, Label: model.LabelSupport},
		{Score: 0.5, Label: model.LabelContradict},
		{Score: 0.9, Label: model.LabelInsufficient},
	}
	s, c := Scores(items)
	assert.Equal(t, 0.7, s)
	assert.Equal(t, 0.5, c)

	s, c = Scores(nil)
	assert.Zero(t, s)
	assert.Zero(t, c)
}
