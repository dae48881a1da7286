// Package pipeline wires extraction, matching and scoring over a record
// store. Every run recomputes claims, verifications and scores from the
// snippet corpus and appends one TCI snapshot per company.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/esgtrace/internal/extract"
	"github.com/ppiankov/esgtrace/internal/ingest"
	"github.com/ppiankov/esgtrace/internal/lexicon"
	"github.com/ppiankov/esgtrace/internal/match"
	"github.com/ppiankov/esgtrace/internal/model"
	"github.com/ppiankov/esgtrace/internal/score"
	"github.com/ppiankov/esgtrace/internal/store"
)

// Pipeline orchestrates a complete run
type Pipeline struct {
	config     *model.Config
	tables     *lexicon.Tables
	extractor  *extract.ClaimExtractor
	normalizer *extract.Normalizer
	matcher    *match.Matcher
	aggregator *score.Aggregator

	claims        *store.Collection[model.Claim]
	verifications *store.Collection[model.Verification]
	scores        *store.Collection[model.CompanyScore]
	history       *store.Collection[model.TCISnapshot]
	explanations  *store.Collection[model.Explanation]
}

// Option configures a Pipeline
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the score timestamp source
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates a pipeline over tables persisting to backend
func New(cfg *model.Config, tables *lexicon.Tables, backend store.Backend, opts ...Option) *Pipeline {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	var scoreOpts []score.Option
	if o.now != nil {
		scoreOpts = append(scoreOpts, score.WithClock(o.now))
	}

	return &Pipeline{
		config:     cfg,
		tables:     tables,
		extractor:  extract.NewClaimExtractor(tables),
		normalizer: extract.NewNormalizer(tables),
		matcher:    match.NewMatcher(cfg.Match, cfg.Concurrency.Workers),
		aggregator: score.NewAggregator(tables.Pillars, cfg.Score.Weights, scoreOpts...),

		claims:        store.NewCollection[model.Claim](backend, store.BucketClaims),
		verifications: store.NewCollection[model.Verification](backend, store.BucketVerifications),
		scores:        store.NewCollection[model.CompanyScore](backend, store.BucketScores),
		history:       store.NewCollection[model.TCISnapshot](backend, store.BucketTCIHistory),
		explanations:  store.NewCollection[model.Explanation](backend, store.BucketExplanations),
	}
}

// Result summarizes one run
type Result struct {
	RunID         string
	Snippets      int
	Skipped       int
	Claims        []model.Claim
	Verifications []model.Verification
	Scores        []model.CompanyScore
}

// Run executes extraction, matching and scoring over the snippet file
func (p *Pipeline) Run(ctx context.Context, snippetsPath string) (*Result, error) {
	snippets, skipped, err := ingest.ReadSnippets(snippetsPath)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		zap.L().Warn("skipped malformed snippets", zap.Int("skipped", skipped))
	}

	res, err := p.RunSnippets(ctx, snippets)
	if err != nil {
		return nil, err
	}
	res.Skipped = skipped
	return res, nil
}

// RunSnippets executes a full run over in-memory snippets
func (p *Pipeline) RunSnippets(ctx context.Context, snippets []model.Snippet) (*Result, error) {
	runID := score.NewRunID()
	log := zap.L().With(zap.String("run_id", runID))
	start := time.Now()

	claims, err := p.Extract(ctx, snippets)
	if err != nil {
		return nil, err
	}
	if err := p.SaveClaims(ctx, claims); err != nil {
		return nil, err
	}
	log.Info("claims extracted", zap.Int("snippets", len(snippets)), zap.Int("claims", len(claims)))

	verifs, err := p.Verify(ctx, claims, snippets)
	if err != nil {
		return nil, err
	}
	log.Info("claims verified", zap.Int("verifications", len(verifs)))

	scores, err := p.Score(ctx, runID, claims, verifs)
	if err != nil {
		return nil, err
	}
	log.Info("run complete", zap.Int("companies", len(scores)), zap.Duration("elapsed", time.Since(start)))

	return &Result{
		RunID:         runID,
		Snippets:      len(snippets),
		Claims:        claims,
		Verifications: verifs,
		Scores:        scores,
	}, nil
}

// Extract runs the claim extractor over every snippet in parallel. Claims
// keep snippet order; duplicates by id keep the first occurrence.
func (p *Pipeline) Extract(ctx context.Context, snippets []model.Snippet) ([]model.Claim, error) {
	perSnippet := make([][]model.Claim, len(snippets))

	g, gctx := errgroup.WithContext(ctx)
	workers := p.config.Concurrency.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i := range snippets {
		i := i // per-iteration copy (go directive lowered to 1.21)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			claims := p.extractor.Extract(snippets[i])
			for j := range claims {
				claims[j], _ = p.normalizer.Normalize(claims[j])
			}
			perSnippet[i] = claims
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "extract claims")
	}

	var all []model.Claim
	for _, claims := range perSnippet {
		all = append(all, claims...)
	}
	return extract.Dedupe(all), nil
}

// SaveClaims replaces the stored claim set
func (p *Pipeline) SaveClaims(ctx context.Context, claims []model.Claim) error {
	if err := p.claims.Reset(ctx); err != nil {
		return eris.Wrap(err, "reset claims")
	}
	for _, c := range claims {
		if err := p.claims.Put(ctx, c.ClaimID, c); err != nil {
			return err
		}
	}
	return nil
}

// Verify matches claims against snippets and replaces the stored
// verification set
func (p *Pipeline) Verify(ctx context.Context, claims []model.Claim, snippets []model.Snippet) ([]model.Verification, error) {
	verifs, err := p.matcher.Match(ctx, claims, snippets)
	if err != nil {
		return nil, err
	}

	if err := p.verifications.Reset(ctx); err != nil {
		return nil, eris.Wrap(err, "reset verifications")
	}
	for _, v := range verifs {
		if err := p.verifications.Put(ctx, v.ClaimID, v); err != nil {
			return nil, err
		}
	}
	return verifs, nil
}

// Score aggregates company scores, replaces the stored score set and
// appends a TCI snapshot per company under runID
func (p *Pipeline) Score(ctx context.Context, runID string, claims []model.Claim, verifs []model.Verification) ([]model.CompanyScore, error) {
	scores := p.aggregator.Aggregate(claims, verifs)

	if err := p.scores.Reset(ctx); err != nil {
		return nil, eris.Wrap(err, "reset scores")
	}
	for _, s := range scores {
		if err := p.scores.Put(ctx, s.CompanyID, s); err != nil {
			return nil, err
		}
	}

	for _, snap := range score.Snapshots(runID, scores) {
		if err := p.history.Put(ctx, snap.ID, snap); err != nil {
			return nil, err
		}
	}
	return scores, nil
}

// Normalize re-applies the current tables to stored claims and returns how
// many changed
func (p *Pipeline) Normalize(ctx context.Context) (int, error) {
	claims, err := p.Claims(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, c := range claims {
		nc, ok := p.normalizer.Normalize(c)
		if !ok {
			continue
		}
		if err := p.claims.Put(ctx, nc.ClaimID, nc); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// Explain explains every stored claim and replaces the stored explanations
func (p *Pipeline) Explain(ctx context.Context, explainer Explainer) ([]model.Explanation, error) {
	claims, err := p.Claims(ctx)
	if err != nil {
		return nil, err
	}
	verifs, err := p.Verifications(ctx)
	if err != nil {
		return nil, err
	}

	exps, err := explainer.ExplainAll(ctx, claims, verifs)
	if err != nil {
		return nil, err
	}

	if err := p.explanations.Reset(ctx); err != nil {
		return nil, eris.Wrap(err, "reset explanations")
	}
	for _, e := range exps {
		if err := p.explanations.Put(ctx, e.ClaimID, e); err != nil {
			return nil, err
		}
	}
	return exps, nil
}

// Explainer produces explanations for a claim set
type Explainer interface {
	ExplainAll(ctx context.Context, claims []model.Claim, verifs []model.Verification) ([]model.Explanation, error)
}

// Claims lists stored claims
func (p *Pipeline) Claims(ctx context.Context) ([]model.Claim, error) {
	return p.claims.ListAll(ctx)
}

// Verifications lists stored verifications
func (p *Pipeline) Verifications(ctx context.Context) ([]model.Verification, error) {
	return p.verifications.ListAll(ctx)
}

// Scores lists stored company scores
func (p *Pipeline) Scores(ctx context.Context) ([]model.CompanyScore, error) {
	return p.scores.ListAll(ctx)
}

// History lists every stored TCI snapshot
func (p *Pipeline) History(ctx context.Context) ([]model.TCISnapshot, error) {
	return p.history.ListAll(ctx)
}

// Explanations lists stored explanations
func (p *Pipeline) Explanations(ctx context.Context) ([]model.Explanation, error) {
	return p.explanations.ListAll(ctx)
}

// Tables returns the lexicon tables in use
func (p *Pipeline) Tables() *lexicon.Tables {
	return p.tables
}
