package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/esgtrace/internal/lexicon"
	"github.com/ppiankov/esgtrace/internal/model"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func pillarTable() lexicon.PillarTable {
	return lexicon.PillarTable{
		"emissions_reduction": model.PillarE,
		"board_diversity":     model.PillarS,
		"audit_quality":       model.PillarG,
	}
}

func newTestAggregator() *Aggregator {
	return NewAggregator(pillarTable(), DefaultWeights, WithClock(func() time.Time { return fixedNow }))
}

func TestAggregate(t *testing.T) {
	claims := []model.Claim{
		{ClaimID: "c1", CompanyID: "acme", Metric: "emissions_reduction"},
		{ClaimID: "c2", CompanyID: "acme", Metric: "emissions_reduction"},
		{ClaimID: "c3", CompanyID: "acme", Metric: "audit_quality"},
	}
	verifs := []model.Verification{
		{ClaimID: "c1", SupportScore: 0.8, ContradictScore: 0},
		{ClaimID: "c2", SupportScore: 0.6, ContradictScore: 0.5},
		{ClaimID: "c3", SupportScore: 0.9, ContradictScore: 0.1},
	}

	scores := newTestAggregator().Aggregate(claims, verifs)
	require.Len(t, scores, 1)

	s := scores[0]
	assert.Equal(t, "acme", s.CompanyID)
	assert.Equal(t, 0.55, s.E) // mean(0.8, 0.3)
	assert.Equal(t, 0.0, s.S)
	assert.Equal(t, 0.81, s.G)
	assert.Equal(t, 0.463, s.TCI) // 0.4*0.55 + 0.3*0.81
	assert.Equal(t, fixedNow, s.UpdatedAt)
}

func TestAggregate_PillarDefaultsToE(t *testing.T) {
	claims := []model.Claim{{ClaimID: "c1", CompanyID: "acme", Metric: "water_use"}}
	verifs := []model.Verification{{ClaimID: "c1", SupportScore: 1.0}}

	s := newTestAggregator().Aggregate(claims, verifs)[0]
	assert.Equal(t, 1.0, s.E)
	assert.Equal(t, 0.0, s.S)
	assert.Equal(t, 0.0, s.G)
	assert.Equal(t, 0.4, s.TCI)
}

func TestAggregate_MissingVerificationIsZero(t *testing.T) {
	claims := []model.Claim{
		{ClaimID: "c1", CompanyID: "acme", Metric: "board_diversity"},
		{ClaimID: "c2", CompanyID: "acme", Metric: "board_diversity"},
	}
	verifs := []model.Verification{{ClaimID: "c1", SupportScore: 0.8}}

	s := newTestAggregator().Aggregate(claims, verifs)[0]
	assert.Equal(t, 0.4, s.S)
}

func TestAggregate_FullContradictionZeroes(t *testing.T) {
	claims := []model.Claim{{ClaimID: "c1", CompanyID: "acme", Metric: "audit_quality"}}
	verifs := []model.Verification{{ClaimID: "c1", SupportScore: 0.9, ContradictScore: 1.0}}

	s := newTestAggregator().Aggregate(claims, verifs)[0]
	assert.Equal(t, 0.0, s.G)
}

func TestAggregate_SortedCompanies(t *testing.T) {
	claims := []model.Claim{
		{ClaimID: "c1", CompanyID: "zeta"},
		{ClaimID: "c2", CompanyID: "alpha"},
		{ClaimID: "c3", CompanyID: "mid"},
	}

	scores := newTestAggregator().Aggregate(claims, nil)
	require.Len(t, scores, 3)
	assert.Equal(t, "alpha", scores[0].CompanyID)
	assert.Equal(t, "mid", scores[1].CompanyID)
	assert.Equal(t, "zeta", scores[2].CompanyID)

	assert.Empty(t, newTestAggregator().Aggregate(nil, nil))
}

func TestAggregator_CustomWeights(t *testing.T) {
	a := NewAggregator(pillarTable(), model.PillarWeights{E: 0, S: 1, G: 0})
	assert.Equal(t, 0.5, a.TCI(1, 0.5, 1))

	zero := NewAggregator(pillarTable(), model.PillarWeights{})
	assert.Equal(t, DefaultWeights, zero.weights)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.125, Round(0.12549, 3))
	assert.Equal(t, 0.13, Round(0.125, 2))
	assert.Equal(t, 0.0, Round(0, 3))
}
