package ingest

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ppiankov/esgtrace/internal/model"
)

// Source types assigned to ingested snippets
const (
	SourceFiling  = "filing"
	SourceNews    = "news"
	SourceNGO     = "ngo"
	SourceWeb     = "web"
	SourceDoc     = "document"
	SourceUnknown = "unknown"
)

// SourceClassifier assigns a source type to an ingested location
type SourceClassifier struct {
	domains      []domainRule
	pathPatterns []*compiledPattern
}

type domainRule struct {
	domain     string
	sourceType string
}

type compiledPattern struct {
	pattern    *regexp.Regexp
	sourceType string
}

// NewSourceClassifier builds a classifier from the configured domain lists
// and path patterns. Invalid patterns are ignored.
func NewSourceClassifier(cfg model.SourceConfig) *SourceClassifier {
	c := &SourceClassifier{}

	add := func(domains []string, sourceType string) {
		for _, d := range domains {
			c.domains = append(c.domains, domainRule{domain: strings.ToLower(d), sourceType: sourceType})
		}
	}
	add(cfg.FilingDomains, SourceFiling)
	add(cfg.NGODomains, SourceNGO)
	add(cfg.NewsDomains, SourceNews)

	for _, p := range cfg.PathPatterns {
		if re, err := regexp.Compile(p.Pattern); err == nil {
			c.pathPatterns = append(c.pathPatterns, &compiledPattern{pattern: re, sourceType: p.SourceType})
		}
	}

	return c
}

// Classify returns the source type of a URL or file path
func (c *SourceClassifier) Classify(location string) string {
	parsed, err := url.Parse(location)
	if err != nil || parsed.Host == "" {
		return c.classifyPath(filepath.ToSlash(location), SourceDoc)
	}

	host := strings.ToLower(parsed.Hostname())

	for _, rule := range c.domains {
		if host == rule.domain || strings.HasSuffix(host, "."+rule.domain) {
			return rule.sourceType
		}
	}

	// Government registries publish filings
	if strings.HasSuffix(host, ".gov") {
		return SourceFiling
	}

	return c.classifyPath(parsed.Path, SourceWeb)
}

func (c *SourceClassifier) classifyPath(path, fallback string) string {
	for _, cp := range c.pathPatterns {
		if cp.pattern.MatchString(path) {
			return cp.sourceType
		}
	}
	return fallback
}
