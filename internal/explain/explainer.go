package explain

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/esgtrace/internal/model"
	"github.com/ppiankov/esgtrace/internal/worker"
)

// NewProvider selects the configured provider. "openai" without an API key
// falls back to the heuristic provider.
func NewProvider(cfg model.ExplainConfig, httpCfg model.HTTPConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.APIKey == "" {
			zap.L().Warn("no OpenAI API key, using heuristic explanations")
			return NewHeuristicProvider(), nil
		}
		return NewOpenAIProvider(cfg, httpCfg)
	case "heuristic", "":
		return NewHeuristicProvider(), nil
	default:
		return nil, eris.Errorf("unknown explain provider: %s (supported: openai, heuristic)", cfg.Provider)
	}
}

// Explainer builds prompts, paces provider calls and stamps explanations
type Explainer struct {
	provider    Provider
	limiter     *worker.Limiter
	maxEvidence int
	model       string
	maxTokens   int
	now         func() time.Time
}

// NewExplainer wraps provider. Calls are paced by rl.
func NewExplainer(provider Provider, cfg model.ExplainConfig, rl model.RateLimitingConfig) *Explainer {
	maxEvidence := cfg.Evidence
	if maxEvidence <= 0 {
		maxEvidence = 5
	}
	return &Explainer{
		provider:    provider,
		limiter:     worker.NewLimiter(rl.RequestsPerSecond, rl.BurstSize),
		maxEvidence: maxEvidence,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Explain produces the explanation for one claim
func (e *Explainer) Explain(ctx context.Context, claim model.Claim, verif model.Verification) (model.Explanation, error) {
	if err := e.limiter.Wait(ctx, e.provider.Name()); err != nil {
		return model.Explanation{}, err
	}

	resp, err := e.provider.Explain(ctx, Request{
		ClaimID:   claim.ClaimID,
		Prompt:    BuildPrompt(claim, verif, e.maxEvidence),
		Model:     e.model,
		MaxTokens: e.maxTokens,
	})
	if err != nil {
		return model.Explanation{}, err
	}
	resp.normalize()

	return model.Explanation{
		ClaimID:    claim.ClaimID,
		Provider:   e.provider.Name(),
		Model:      resp.Model,
		Summary:    resp.Summary,
		Confidence: resp.Confidence,
		RiskFlag:   resp.RiskFlag,
		Timestamp:  e.now(),
	}, nil
}

// ExplainAll explains every claim in order. Claims without a verification
// are explained as insufficient. Per-claim failures are logged and skipped.
func (e *Explainer) ExplainAll(ctx context.Context, claims []model.Claim, verifs []model.Verification) ([]model.Explanation, error) {
	byClaim := make(map[string]model.Verification, len(verifs))
	for _, v := range verifs {
		byClaim[v.ClaimID] = v
	}

	out := make([]model.Explanation, 0, len(claims))
	for _, c := range claims {
		v, ok := byClaim[c.ClaimID]
		if !ok {
			v = model.Insufficient(c)
		}

		exp, err := e.Explain(ctx, c, v)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			zap.L().Warn("explain failed", zap.String("claim_id", c.ClaimID), zap.Error(err))
			continue
		}
		out = append(out, exp)
	}
	return out, nil
}
