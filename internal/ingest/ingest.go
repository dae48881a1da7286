// Package ingest turns local documents and web pages into snippet records:
// visible text, split into sentences, tagged with company, source and
// source type.
package ingest

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/esgtrace/internal/model"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Ingester converts inputs into snippets for one company at a time
type Ingester struct {
	fetcher    *Fetcher
	classifier *SourceClassifier
}

// NewIngester creates an ingester. fetcher may be nil when only local
// files are ingested.
func NewIngester(fetcher *Fetcher, classifier *SourceClassifier) *Ingester {
	return &Ingester{fetcher: fetcher, classifier: classifier}
}

// Ingest reads every input (file path or http(s) URL) and returns its
// sentences as snippets. Failing inputs are logged and skipped; an error is
// returned only when every input failed.
func (in *Ingester) Ingest(ctx context.Context, companyID, date string, inputs []string) ([]model.Snippet, error) {
	companyID = Slug(companyID)
	if companyID == "" {
		return nil, eris.New("ingest: empty company id")
	}

	var out []model.Snippet
	failed := 0
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snippets, err := in.ingestOne(ctx, companyID, date, input)
		if err != nil {
			failed++
			zap.L().Warn("ingest failed", zap.String("input", input), zap.Error(err))
			continue
		}
		zap.L().Info("ingested", zap.String("input", input), zap.Int("snippets", len(snippets)))
		out = append(out, snippets...)
	}

	if failed > 0 && failed == len(inputs) {
		return nil, eris.Errorf("ingest: all %d inputs failed", failed)
	}
	return out, nil
}

func (in *Ingester) ingestOne(ctx context.Context, companyID, date, input string) ([]model.Snippet, error) {
	text, err := in.load(ctx, input)
	if err != nil {
		return nil, err
	}

	sourceID := SourceID(input)
	sourceType := in.classifier.Classify(input)

	sentences := SplitSentences(text)
	snippets := make([]model.Snippet, 0, len(sentences))
	for i, sentence := range sentences {
		snippets = append(snippets, model.Snippet{
			SnippetID:  fmt.Sprintf("%s_%s_%d", companyID, sourceID, i+1),
			CompanyID:  companyID,
			SourceID:   sourceID,
			SourceType: sourceType,
			Text:       sentence,
			Date:       date,
		})
	}
	return snippets, nil
}

// load returns the visible text of input
func (in *Ingester) load(ctx context.Context, input string) (string, error) {
	if isURL(input) {
		if in.fetcher == nil {
			return "", eris.Errorf("no fetcher configured for %s", input)
		}
		doc, err := in.fetcher.Fetch(ctx, input)
		if err != nil {
			return "", err
		}
		body := string(doc.Body)
		if strings.Contains(doc.ContentType, "html") || looksLikeHTML(body) {
			return VisibleText(body)
		}
		return body, nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return "", eris.Wrapf(err, "read %s", input)
	}
	switch strings.ToLower(filepath.Ext(input)) {
	case ".html", ".htm", ".xhtml":
		return VisibleText(string(data))
	default:
		return string(data), nil
	}
}

// SourceID derives a stable slug for an input: the file name without
// extension, or host plus last path segment for URLs
func SourceID(input string) string {
	if isURL(input) {
		u, _ := url.Parse(input)
		host := strings.TrimPrefix(u.Hostname(), "www.")
		last := strings.TrimSuffix(filepath.Base(u.Path), filepath.Ext(u.Path))
		if last == "" || last == "." || last == "/" {
			return Slug(host)
		}
		return Slug(host + "_" + last)
	}
	base := filepath.Base(input)
	return Slug(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Slug lower-cases s and collapses everything but letters and digits to "_"
func Slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "_"), "_")
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func looksLikeHTML(body string) bool {
	head := strings.ToLower(body)
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}
