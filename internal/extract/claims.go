package extract

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/esgtrace/internal/lexicon"
	"github.com/ppiankov/esgtrace/internal/model"
)

// domainPattern is one ESG claim shape. Each matching pattern yields a claim.
type domainPattern struct {
	Name string
	re   *regexp.Regexp
}

var netZeroRe = regexp.MustCompile(`(?i)net[-\s]?zero\s*(?:by|in)?\s*(\d{4})`)

var domainPatterns = []domainPattern{
	{"percent_reduction", regexp.MustCompile(`(?i)(?:reduce|reduced|reducing|cut|cutting|decrease|decreased)\s+(?:.*?)(\d+(?:\.\d+)?)\s*` + percentUnit)},
	{"reduction_by", regexp.MustCompile(`(?i)(?:reduction of|reduced by)\s+(\d+(?:\.\d+)?)\s*` + percentUnit)},
	{"net_zero", netZeroRe},
	{"renewable_share", regexp.MustCompile(`(?i)(?:renewable|renewables|renewable energy).{0,40}?(\d+(?:\.\d+)?)\s*` + percentUnit)},
	{"emissions_quantity", regexp.MustCompile(`(?i)(?:emissions|ghg|co2|co₂).{0,40}?(\d+(?:\.\d+)?)\s*(t(?:onnes)?|tons?|tco2e|tonnes|kg|g|%|percent)?`)},
}

// ClaimExtractor turns evidence snippets into structured claims.
// It is rule-first and conservative: no pattern and no keyword, no claim.
type ClaimExtractor struct {
	units    lexicon.UnitTable
	aliases  lexicon.MetricAliases
	entities *EntityRecognizer
	patterns []domainPattern
}

// NewClaimExtractor creates an extractor over the given tables
func NewClaimExtractor(tables *lexicon.Tables) *ClaimExtractor {
	return &ClaimExtractor{
		units:    tables.Units,
		aliases:  tables.MetricAliases,
		entities: NewEntityRecognizer(),
		patterns: domainPatterns,
	}
}

// Extract returns the claims found in snippet, possibly none. Claims come
// out in pattern order; two patterns resolving to the same metric yield two
// claims sharing one ClaimID.
func (e *ClaimExtractor) Extract(snippet model.Snippet) []model.Claim {
	text := snippet.Text
	if strings.TrimSpace(text) == "" {
		return nil
	}

	hasEntity := HasAny(e.entities.Recognize(text), EntityPercent, EntityCardinal, EntityQuantity)

	var claims []model.Claim
	for _, p := range e.patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		var value *float64
		unit := ""
		if num, ok := ExtractNumeric(text); ok {
			value = model.Float(num.Value)
			unit = num.RawUnit
		} else if v, ok := firstDecimal(m[1:]); ok {
			value = model.Float(v)
		}

		metric, _ := e.aliases.Lookup(text)

		if nz := netZeroRe.FindStringSubmatch(text); nz != nil {
			if metric == "" {
				metric = model.MetricNetZero
			}
			if year, err := strconv.Atoi(nz[1]); err == nil {
				value = model.Float(float64(year))
				unit = model.UnitYear
			}
		}

		claims = append(claims, e.newClaim(snippet, metric, value, unit, ConfidenceSignals{
			NumericEntity:  hasEntity,
			PatternMatched: true,
		}))
	}

	if len(claims) > 0 {
		return claims
	}

	// Fallback: a metric keyword plus a number, without the pattern bonus
	if !e.aliases.HasKeyword(text) {
		return nil
	}
	num, ok := ExtractNumeric(text)
	if !ok {
		return nil
	}
	metric, _ := e.aliases.Lookup(text)
	return []model.Claim{e.newClaim(snippet, metric, model.Float(num.Value), num.RawUnit, ConfidenceSignals{
		NumericEntity: hasEntity,
	})}
}

func (e *ClaimExtractor) newClaim(snippet model.Snippet, metric string, value *float64, rawUnit string, signals ConfidenceSignals) model.Claim {
	if metric == "" {
		metric = model.MetricUnknown
	}

	sources := []string{}
	if snippet.SourceID != "" {
		sources = append(sources, snippet.SourceID)
	}

	return model.Claim{
		ClaimID:         ClaimID(snippet.CompanyID, snippet.SnippetID, metric),
		CompanyID:       snippet.CompanyID,
		ClaimText:       strings.TrimSpace(snippet.Text),
		NumericValue:    value,
		Unit:            e.units.Normalize(rawUnit),
		Metric:          metric,
		ReportingPeriod: snippet.Date,
		ExtractedFrom:   snippet.SnippetID,
		Sources:         sources,
		Confidence:      Confidence(signals),
	}
}

// ClaimID derives the stable claim identifier from the snippet and metric.
// Not cryptographic: it only has to be identical across re-runs.
func ClaimID(companyID, snippetID, metric string) string {
	sum := sha1.Sum([]byte(snippetID + metric))
	return "claim_" + companyID + "_" + hex.EncodeToString(sum[:])[:8]
}

// Dedupe keeps the first claim for each ClaimID
func Dedupe(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool, len(claims))
	unique := make([]model.Claim, 0, len(claims))

	for _, claim := range claims {
		if !seen[claim.ClaimID] {
			seen[claim.ClaimID] = true
			unique = append(unique, claim)
		}
	}

	return unique
}
