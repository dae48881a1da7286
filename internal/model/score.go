package model

import "time"

// Pillar is one of the three ESG categories
type Pillar string

const (
	PillarE Pillar = "E" // Environmental
	PillarS Pillar = "S" // Social
	PillarG Pillar = "G" // Governance
)

// Pillars lists the pillars in report order
var Pillars = []Pillar{PillarE, PillarS, PillarG}

// CompanyScore is the per-company aggregate. Recomputed wholesale every run.
type CompanyScore struct {
	CompanyID string    `json:"company_id"`
	E         float64   `json:"E"`
	S         float64   `json:"S"`
	G         float64   `json:"G"`
	TCI       float64   `json:"TCI"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pillar returns the sub-score for p
func (c CompanyScore) Pillar(p Pillar) float64 {
	switch p {
	case PillarS:
		return c.S
	case PillarG:
		return c.G
	default:
		return c.E
	}
}

// TCISnapshot is one appended entry of a company's TCI history
type TCISnapshot struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	CompanyID string    `json:"company_id"`
	TCI       float64   `json:"TCI"`
	Date      time.Time `json:"date"`
}

// TimelinePoint is one element of a company's TCI series
type TimelinePoint struct {
	Date time.Time `json:"date"`
	TCI  float64   `json:"TCI"`
}

// FairnessEntry reports how evenly a company's claims cover the pillars
type FairnessEntry struct {
	CompanyID     string  `json:"company_id"`
	E             int     `json:"E"`
	S             int     `json:"S"`
	G             int     `json:"G"`
	FairnessRatio float64 `json:"fairness_ratio"`
	Flag          string  `json:"flag"` // "biased" or "balanced"
}

// ClaimIndexEntry joins a claim with its verification outcome
type ClaimIndexEntry struct {
	ClaimID          string   `json:"claim_id"`
	CompanyID        string   `json:"company_id"`
	Metric           string   `json:"metric"`
	NumericValue     *float64 `json:"numeric_value"`
	Unit             string   `json:"unit,omitempty"`
	Confidence       float64  `json:"confidence"`
	FinalVerdict     Verdict  `json:"final_verdict,omitempty"`
	SupportScore     *float64 `json:"support_score"`
	ContradictScore  *float64 `json:"contradict_score"`
	TopEvidenceCount int      `json:"top_evidence_count"`
}

// Explanation is an optional narrative attached to a claim.
// It is generated after scoring and never affects any score.
type Explanation struct {
	ClaimID    string    `json:"claim_id"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model,omitempty"`
	Summary    string    `json:"summary"`
	Confidence float64   `json:"confidence"`
	RiskFlag   string    `json:"risk_flag"` // low, medium, high
	Timestamp  time.Time `json:"timestamp"`
}
