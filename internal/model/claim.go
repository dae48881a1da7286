package model

// MetricUnknown is the metric tag of a claim no alias matched
const MetricUnknown = "unknown"

// MetricNetZero is assigned to "net-zero by YEAR" claims without a better tag
const MetricNetZero = "net_zero_commitment"

// UnitYear is the literal unit of net-zero target years
const UnitYear = "year"

// Claim is a structured assertion derived from exactly one snippet.
// ClaimID is derived from the snippet id and metric, so re-extraction
// produces the same identifier.
type Claim struct {
	ClaimID         string   `json:"claim_id"`
	CompanyID       string   `json:"company_id"`
	ClaimText       string   `json:"claim_text"`
	NumericValue    *float64 `json:"numeric_value"`
	Unit            string   `json:"unit,omitempty"` // Normalized unit, empty when none
	Metric          string   `json:"metric"`
	Baseline        *float64 `json:"baseline"`
	ReportingPeriod string   `json:"reporting_period,omitempty"`
	ExtractedFrom   string   `json:"extracted_from"` // Snippet ID
	Sources         []string `json:"sources"`
	Confidence      float64  `json:"confidence"`
}

// HasValue reports whether the claim carries a numeric value
func (c Claim) HasValue() bool {
	return c.NumericValue != nil
}

// Value returns the numeric value or 0
func (c Claim) Value() float64 {
	if c.NumericValue == nil {
		return 0
	}
	return *c.NumericValue
}

// Float returns a pointer to v, for optional numeric fields
func Float(v float64) *float64 {
	return &v
}
