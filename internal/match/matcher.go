package match

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/esgtrace/internal/model"
	"github.com/ppiankov/esgtrace/internal/worker"
)

// Matcher verifies claims against a snippet corpus
type Matcher struct {
	cfg     model.MatchConfig
	workers int
}

// NewMatcher creates a matcher. Zero config fields take their defaults.
func NewMatcher(cfg model.MatchConfig, workers int) *Matcher {
	if cfg.TopK <= 0 {
		cfg.TopK = 10
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = DefaultMaxFeatures
	}
	if cfg.VerdictThreshold <= 0 {
		cfg.VerdictThreshold = DefaultVerdictThreshold
	}
	return &Matcher{cfg: cfg, workers: workers}
}

func (m *Matcher) tolerances() Tolerances {
	return Tolerances{PercentAbs: m.cfg.PercentAbsTolerance, AbsFrac: m.cfg.AbsFracTolerance}
}

// Match builds one index over all snippets and verifies every claim against
// it in parallel. Verifications are returned in claim order.
func (m *Matcher) Match(ctx context.Context, claims []model.Claim, snippets []model.Snippet) ([]model.Verification, error) {
	out := make([]model.Verification, len(claims))

	if len(snippets) == 0 {
		zap.L().Warn("empty snippet corpus, every claim is insufficient", zap.Int("claims", len(claims)))
		for i, c := range claims {
			out[i] = model.Insufficient(c)
		}
		return out, nil
	}

	texts := make([]string, len(snippets))
	for i, s := range snippets {
		texts[i] = s.Text
	}
	idx := BuildIndex(texts, m.cfg.MaxFeatures)
	zap.L().Debug("similarity index built",
		zap.Int("snippets", idx.Len()),
		zap.Int("vocabulary", idx.VocabularySize()),
	)

	jobs := make([]worker.Job, len(claims))
	for i, c := range claims {
		jobs[i] = &verifyJob{pos: i, claim: c, matcher: m, index: idx, snippets: snippets}
	}

	results, err := worker.Run(ctx, m.workers, jobs)
	if err != nil {
		return nil, eris.Wrap(err, "match claims")
	}
	if len(results) != len(claims) {
		return nil, eris.Errorf("match claims: %d of %d verified", len(results), len(claims))
	}

	for _, r := range results {
		vr := r.(*verifyResult)
		out[vr.pos] = vr.verification
	}
	return out, nil
}

// Verify matches one claim against an already built index
func (m *Matcher) Verify(idx *Index, snippets []model.Snippet, claim model.Claim) model.Verification {
	if idx == nil || idx.Len() == 0 || strings.TrimSpace(claim.ClaimText) == "" {
		return model.Insufficient(claim)
	}

	sims := idx.Similarities(idx.Vectorize(claim.ClaimText))
	tol := m.tolerances()

	items := make([]model.EvidenceItem, 0, m.cfg.TopK)
	for _, r := range TopK(sims, m.cfg.TopK) {
		s := snippets[r.Doc]
		items = append(items, evidenceItem(s, r.Score, Label(claim, s.Text, r.Score, tol)))
	}

	support, contradict := Scores(items)
	return model.Verification{
		ClaimID:         claim.ClaimID,
		CompanyID:       claim.CompanyID,
		TopEvidence:     items,
		SupportScore:    support,
		ContradictScore: contradict,
		FinalVerdict:    DecideVerdict(support, contradict, m.cfg.VerdictThreshold),
	}
}

func evidenceItem(s model.Snippet, score float64, label model.EvidenceLabel) model.EvidenceItem {
	sourceID := s.SourceID
	if sourceID == "" {
		sourceID = s.SnippetID
	}
	sourceType := s.SourceType
	if sourceType == "" {
		sourceType = "unknown"
	}
	return model.EvidenceItem{
		SnippetID:   s.SnippetID,
		Score:       score,
		Label:       label,
		SourceID:    sourceID,
		SourceType:  sourceType,
		SnippetText: model.TruncateText(s.Text, model.MaxEvidenceText),
	}
}

type verifyJob struct {
	pos      int
	claim    model.Claim
	matcher  *Matcher
	index    *Index
	snippets []model.Snippet
}

func (j *verifyJob) Execute(ctx context.Context) worker.Result {
	return &verifyResult{pos: j.pos, verification: j.matcher.Verify(j.index, j.snippets, j.claim)}
}

type verifyResult struct {
	pos          int
	verification model.Verification
}

func (r *verifyResult) GetError() error {
	return nil
}
