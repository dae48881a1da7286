package explain

import (
	"context"
	"strings"
)

// HeuristicProvider answers offline from keywords in the prompt
type HeuristicProvider struct{}

// NewHeuristicProvider creates the offline provider
func NewHeuristicProvider() *HeuristicProvider {
	return &HeuristicProvider{}
}

// Name returns the provider name
func (p *HeuristicProvider) Name() string {
	return "heuristic"
}

// Explain rates reduction claims as credible and everything else as
// moderately reliable
func (p *HeuristicProvider) Explain(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &Response{Confidence: 0.65, Model: p.Name()}
	if strings.Contains(strings.ToLower(req.Prompt), "reduce") {
		resp.Confidence = 0.85
	}

	if resp.Confidence > 0.8 {
		resp.RiskFlag = RiskLow
		resp.Summary = "This claim appears credible with supporting evidence."
	} else {
		resp.RiskFlag = RiskMedium
		resp.Summary = "Some evidence gaps detected; moderate reliability."
	}
	return resp, nil
}
