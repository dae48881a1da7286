package score

import (
	"sort"
	"strings"

	"github.com/ppiankov/esgtrace/internal/lexicon"
	"github.com/ppiankov/esgtrace/internal/model"
)

// Fairness flags
const (
	FlagBiased   = "biased"
	FlagBalanced = "balanced"
)

// balancedRatio is the lowest min/max pillar ratio still considered balanced
const balancedRatio = 0.5

// Fairness counts each company's claims per pillar and flags companies whose
// disclosures lean on one pillar. Companies are sorted by id.
func Fairness(claims []model.Claim, pillars lexicon.PillarTable) []model.FairnessEntry {
	counts := make(map[string]map[model.Pillar]int)
	for _, c := range claims {
		if counts[c.CompanyID] == nil {
			counts[c.CompanyID] = make(map[model.Pillar]int)
		}
		counts[c.CompanyID][pillars.PillarOf(strings.ToLower(c.Metric))]++
	}

	entries := make([]model.FairnessEntry, 0, len(counts))
	for companyID, n := range counts {
		e := model.FairnessEntry{
			CompanyID: companyID,
			E:         n[model.PillarE],
			S:         n[model.PillarS],
			G:         n[model.PillarG],
		}
		lo, hi := minMax(e.E, e.S, e.G)
		if hi > 0 {
			e.FairnessRatio = Round(float64(lo)/float64(hi), 2)
		}
		e.Flag = FlagBalanced
		if e.FairnessRatio < balancedRatio {
			e.Flag = FlagBiased
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].CompanyID < entries[j].CompanyID })
	return entries
}

func minMax(values ...int) (lo, hi int) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
