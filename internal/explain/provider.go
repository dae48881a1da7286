// Package explain attaches short narrative explanations to verified
// claims. Explanations are advisory and never feed back into scores.
package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/esgtrace/internal/model"
)

// Risk flags
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Provider produces an explanation for one prompt
type Provider interface {
	// Name returns the provider name
	Name() string

	// Explain answers the prompt with a summary, confidence and risk flag
	Explain(ctx context.Context, req Request) (*Response, error)
}

// Request is the input of one explanation call
type Request struct {
	ClaimID   string
	Prompt    string
	Model     string
	MaxTokens int
}

// Response is a provider's structured answer
type Response struct {
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
	RiskFlag   string  `json:"risk_flag"`
	Model      string  `json:"-"`
}

// normalize clamps confidence to [0,1] and maps unknown risk flags to medium
func (r *Response) normalize() {
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}
	r.RiskFlag = strings.ToLower(strings.TrimSpace(r.RiskFlag))
	switch r.RiskFlag {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		r.RiskFlag = RiskMedium
	}
	r.Summary = strings.TrimSpace(r.Summary)
}

// BuildPrompt describes a claim and up to maxEvidence of its top evidence
// snippets and asks for a JSON verdict on its credibility.
func BuildPrompt(claim model.Claim, verif model.Verification, maxEvidence int) string {
	var b strings.Builder

	value := "None"
	if claim.HasValue() {
		value = fmt.Sprintf("%g", claim.Value())
	}

	fmt.Fprintf(&b, "Claim: %s\n", claim.ClaimText)
	fmt.Fprintf(&b, "Metric: %s\n", claim.Metric)
	fmt.Fprintf(&b, "Value: %s %s\n", value, claim.Unit)
	fmt.Fprintf(&b, "Verdict: %s (support %.2f, contradict %.2f)\n",
		verif.FinalVerdict, verif.SupportScore, verif.ContradictScore)
	b.WriteString("Evidence snippets:\n")

	n := 0
	for _, ev := range verif.TopEvidence {
		if n >= maxEvidence {
			break
		}
		fmt.Fprintf(&b, "- [%s] %s\n", ev.Label, ev.SnippetText)
		n++
	}
	if n == 0 {
		b.WriteString("- None\n")
	}

	b.WriteString("\nTask: Summarize the claim's credibility, explain which evidence supports or contradicts it, ")
	b.WriteString("assign a confidence (0-1), and a risk_flag = low/medium/high.\n")
	b.WriteString("Output JSON with keys: summary, confidence, risk_flag.")

	return b.String()
}
