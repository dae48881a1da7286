package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/esgtrace/internal/ingest"
	"github.com/ppiankov/esgtrace/internal/model"
	"github.com/ppiankov/esgtrace/internal/score"
)

// Report is everything exported after a run
type Report struct {
	Scores      []model.CompanyScore
	ClaimsIndex []model.ClaimIndexEntry
	Fairness    []model.FairnessEntry
	Timelines   map[string][]model.TimelinePoint
}

// BuildReport assembles the report from stored records
func (p *Pipeline) BuildReport(ctx context.Context) (*Report, error) {
	claims, err := p.Claims(ctx)
	if err != nil {
		return nil, err
	}
	verifs, err := p.Verifications(ctx)
	if err != nil {
		return nil, err
	}
	scores, err := p.Scores(ctx)
	if err != nil {
		return nil, err
	}
	history, err := p.History(ctx)
	if err != nil {
		return nil, err
	}

	return &Report{
		Scores:      scores,
		ClaimsIndex: ClaimsIndex(claims, verifs),
		Fairness:    score.Fairness(claims, p.tables.Pillars),
		Timelines:   score.Timeline(history),
	}, nil
}

// ClaimsIndex joins each claim with its verification outcome, in claim
// order. Claims without a verification keep empty verdict fields.
func ClaimsIndex(claims []model.Claim, verifs []model.Verification) []model.ClaimIndexEntry {
	byClaim := make(map[string]model.Verification, len(verifs))
	for _, v := range verifs {
		byClaim[v.ClaimID] = v
	}

	out := make([]model.ClaimIndexEntry, 0, len(claims))
	for _, c := range claims {
		e := model.ClaimIndexEntry{
			ClaimID:      c.ClaimID,
			CompanyID:    c.CompanyID,
			Metric:       c.Metric,
			NumericValue: c.NumericValue,
			Unit:         c.Unit,
			Confidence:   c.Confidence,
		}
		if v, ok := byClaim[c.ClaimID]; ok {
			e.FinalVerdict = v.FinalVerdict
			e.SupportScore = model.Float(v.SupportScore)
			e.ContradictScore = model.Float(v.ContradictScore)
			e.TopEvidenceCount = len(v.TopEvidence)
		}
		out = append(out, e)
	}
	return out
}

// Renderer writes reports to an output directory
type Renderer struct {
	dir      string
	markdown bool
}

// NewRenderer creates a renderer writing under dir
func NewRenderer(dir string, markdown bool) *Renderer {
	return &Renderer{dir: dir, markdown: markdown}
}

// Render writes every report file and returns their paths
func (r *Renderer) Render(report *Report) ([]string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, eris.Wrapf(err, "create output dir %s", r.dir)
	}

	files := map[string]any{
		"companies_tci.json":  nonNil(report.Scores),
		"claims_index.json":   nonNil(report.ClaimsIndex),
		"fairness_meter.json": nonNil(report.Fairness),
	}
	for companyID, series := range report.Timelines {
		files[fmt.Sprintf("timeline_%s.json", ingest.Slug(companyID))] = series
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		path := filepath.Join(r.dir, name)
		if err := writeJSON(path, files[name]); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if r.markdown {
		path := filepath.Join(r.dir, "summary.md")
		f, err := os.Create(path)
		if err != nil {
			return written, eris.Wrapf(err, "create %s", path)
		}
		err = RenderMarkdown(f, report)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return written, eris.Wrapf(err, "write %s", path)
		}
		written = append(written, path)
	}

	return written, nil
}

// RenderMarkdown writes a human-readable summary table
func RenderMarkdown(w io.Writer, report *Report) error {
	var b strings.Builder

	b.WriteString("# ESG Trust/Confidence Index\n\n")
	b.WriteString("| Company | E | S | G | TCI |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, s := range report.Scores {
		fmt.Fprintf(&b, "| %s | %.3f | %.3f | %.3f | **%.3f** |\n", s.CompanyID, s.E, s.S, s.G, s.TCI)
	}

	counts := make(map[model.Verdict]int)
	for _, e := range report.ClaimsIndex {
		v := e.FinalVerdict
		if v == "" {
			v = model.VerdictInsufficient
		}
		counts[v]++
	}
	fmt.Fprintf(&b, "\n## Claims\n\n%d claims: %d supported, %d contradicted, %d insufficient\n",
		len(report.ClaimsIndex),
		counts[model.VerdictSupported], counts[model.VerdictContradicted], counts[model.VerdictInsufficient])

	if len(report.Fairness) > 0 {
		b.WriteString("\n## Pillar Coverage\n\n")
		b.WriteString("| Company | E | S | G | Ratio | Flag |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, f := range report.Fairness {
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %.2f | %s |\n", f.CompanyID, f.E, f.S, f.G, f.FairnessRatio, f.Flag)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "marshal %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}

// nonNil renders empty lists as [] rather than null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
