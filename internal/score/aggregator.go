// Package score reduces claims and their verifications into per-company
// pillar sub-scores and the weighted Trust/Confidence Index.
package score

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/esgtrace/internal/lexicon"
	"github.com/ppiankov/esgtrace/internal/model"
)

// DefaultWeights are the TCI pillar weights, Environmental first
var DefaultWeights = model.PillarWeights{E: 0.4, S: 0.3, G: 0.3}

// Aggregator computes company scores
type Aggregator struct {
	pillars lexicon.PillarTable
	weights model.PillarWeights
	now     func() time.Time
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// NewAggregator creates an aggregator. All-zero weights fall back to
// DefaultWeights.
func NewAggregator(pillars lexicon.PillarTable, weights model.PillarWeights, opts ...Option) *Aggregator {
	if weights == (model.PillarWeights{}) {
		weights = DefaultWeights
	}
	a := &Aggregator{
		pillars: pillars,
		weights: weights,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Consistency rewards corroboration and penalizes any contradiction signal
func Consistency(support, contradict float64) float64 {
	return support * (1 - contradict)
}

// Aggregate recomputes every company's score from the full claim and
// verification sets. A claim without a verification counts as insufficient
// with zero scores. Companies are returned sorted by id.
func (a *Aggregator) Aggregate(claims []model.Claim, verifications []model.Verification) []model.CompanyScore {
	byClaim := make(map[string]model.Verification, len(verifications))
	for _, v := range verifications {
		byClaim[v.ClaimID] = v
	}

	perCompany := make(map[string]map[model.Pillar][]float64)
	for _, c := range claims {
		pillar := a.pillars.PillarOf(strings.ToLower(c.Metric))

		var consistency float64
		if v, ok := byClaim[c.ClaimID]; ok {
			consistency = Consistency(v.SupportScore, v.ContradictScore)
		}

		if perCompany[c.CompanyID] == nil {
			perCompany[c.CompanyID] = make(map[model.Pillar][]float64)
		}
		perCompany[c.CompanyID][pillar] = append(perCompany[c.CompanyID][pillar], consistency)
	}

	updated := a.now()
	scores := make([]model.CompanyScore, 0, len(perCompany))
	for companyID, pillars := range perCompany {
		cs := model.CompanyScore{
			CompanyID: companyID,
			E:         Round(mean(pillars[model.PillarE]), 3),
			S:         Round(mean(pillars[model.PillarS]), 3),
			G:         Round(mean(pillars[model.PillarG]), 3),
			UpdatedAt: updated,
		}
		cs.TCI = a.TCI(cs.E, cs.S, cs.G)
		scores = append(scores, cs)
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].CompanyID < scores[j].CompanyID })
	return scores
}

// TCI weights the pillar sub-scores, rounded to 3 decimals
func (a *Aggregator) TCI(e, s, g float64) float64 {
	return Round(a.weights.E*e+a.weights.S*s+a.weights.G*g, 3)
}

// mean is 0 for an empty pillar
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Round rounds half away from zero to the given number of decimals
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
