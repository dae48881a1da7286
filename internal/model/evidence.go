package model

// EvidenceLabel classifies how one snippet relates to one claim
type EvidenceLabel string

const (
	LabelSupport      EvidenceLabel = "support"
	LabelContradict   EvidenceLabel = "contradict"
	LabelInsufficient EvidenceLabel = "insufficient"
)

// Verdict is the categorical outcome of matching a claim against the corpus
type Verdict string

const (
	VerdictSupported    Verdict = "supported"
	VerdictContradicted Verdict = "contradicted"
	VerdictInsufficient Verdict = "insufficient"
)

// MaxEvidenceText bounds EvidenceItem.SnippetText (in runes)
const MaxEvidenceText = 1000

// EvidenceItem is the result of matching one claim against one snippet.
// Recomputed on every run.
type EvidenceItem struct {
	SnippetID   string        `json:"snippet_id"`
	Score       float64       `json:"score"` // Cosine similarity in [0,1]
	Label       EvidenceLabel `json:"label"`
	SourceID    string        `json:"source_id"`
	SourceType  string        `json:"source_type"`
	SnippetText string        `json:"snippet_text"`
}

// Verification is the per-claim aggregate over its ranked evidence
type Verification struct {
	ClaimID         string         `json:"claim_id"`
	CompanyID       string         `json:"company_id"`
	TopEvidence     []EvidenceItem `json:"top_evidence"`
	SupportScore    float64        `json:"support_score"`
	ContradictScore float64        `json:"contradict_score"`
	FinalVerdict    Verdict        `json:"final_verdict"`
}

// Insufficient returns the verification used when matching could not run
func Insufficient(claim Claim) Verification {
	return Verification{
		ClaimID:      claim.ClaimID,
		CompanyID:    claim.CompanyID,
		TopEvidence:  []EvidenceItem{},
		FinalVerdict: VerdictInsufficient,
	}
}

// TruncateText cuts s to at most n runes
func TruncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
