package model

import (
	"runtime"
	"time"
)

// Config holds the full esgtrace configuration
type Config struct {
	Lexicon      LexiconConfig      `yaml:"lexicon" mapstructure:"lexicon"`
	Input        InputConfig        `yaml:"input" mapstructure:"input"`
	Match        MatchConfig        `yaml:"match" mapstructure:"match"`
	Score        ScoreConfig        `yaml:"score" mapstructure:"score"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Sources      SourceConfig       `yaml:"sources" mapstructure:"sources"`
	Explain      ExplainConfig      `yaml:"explain" mapstructure:"explain"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// LexiconConfig points at the unit/alias/pillar tables file
type LexiconConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // Empty means built-in tables
}

// InputConfig locates the snippet corpus
type InputConfig struct {
	Snippets string `yaml:"snippets" mapstructure:"snippets"` // JSONL file
}

// MatchConfig tunes evidence matching and verdicts
type MatchConfig struct {
	TopK                int     `yaml:"top_k" mapstructure:"top_k"`
	PercentAbsTolerance float64 `yaml:"percent_abs_tolerance" mapstructure:"percent_abs_tolerance"` // Percentage points
	AbsFracTolerance    float64 `yaml:"abs_frac_tolerance" mapstructure:"abs_frac_tolerance"`       // Relative difference
	VerdictThreshold    float64 `yaml:"verdict_threshold" mapstructure:"verdict_threshold"`
	MaxFeatures         int     `yaml:"max_features" mapstructure:"max_features"`
}

// ScoreConfig tunes TCI aggregation
type ScoreConfig struct {
	Weights PillarWeights `yaml:"weights" mapstructure:"weights"`
}

// PillarWeights are the TCI weights per pillar
type PillarWeights struct {
	E float64 `yaml:"e" mapstructure:"e"`
	S float64 `yaml:"s" mapstructure:"s"`
	G float64 `yaml:"g" mapstructure:"g"`
}

// StoreConfig selects the record store backend
type StoreConfig struct {
	Driver string        `yaml:"driver" mapstructure:"driver"` // memory, disk, layered, sqlite
	Dir    string        `yaml:"dir" mapstructure:"dir"`       // disk and layered
	DSN    string        `yaml:"dsn" mapstructure:"dsn"`       // sqlite
	TTL    time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
}

// ConcurrencyConfig controls parallel extraction and matching
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// HTTPConfig configures fetching of remote ingestion sources
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// RateLimitingConfig controls per-host request pacing
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// SourceConfig classifies ingested URLs into source types
type SourceConfig struct {
	FilingDomains []string          `yaml:"filing_domains" mapstructure:"filing_domains"`
	NewsDomains   []string          `yaml:"news_domains" mapstructure:"news_domains"`
	NGODomains    []string          `yaml:"ngo_domains" mapstructure:"ngo_domains"`
	PathPatterns  []PathPatternRule `yaml:"path_patterns" mapstructure:"path_patterns"`
}

// PathPatternRule maps a URL regex to a source type
type PathPatternRule struct {
	Pattern    string `yaml:"pattern" mapstructure:"pattern"`
	SourceType string `yaml:"source_type" mapstructure:"source_type"`
}

// ExplainConfig configures the optional claim explanation step
type ExplainConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai or heuristic
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Evidence  int    `yaml:"evidence" mapstructure:"evidence"` // Evidence snippets per prompt
}

// OutputConfig controls exported reports
type OutputConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	Markdown bool   `yaml:"markdown" mapstructure:"markdown"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Snippets: "data/cleaned/snippets.jsonl",
		},
		Match: MatchConfig{
			TopK:                10,
			PercentAbsTolerance: 2.0,
			AbsFracTolerance:    0.05,
			VerdictThreshold:    0.55,
			MaxFeatures:         5000,
		},
		Score: ScoreConfig{
			Weights: PillarWeights{E: 0.4, S: 0.3, G: 0.3},
		},
		Store: StoreConfig{
			Driver: "disk",
			Dir:    ".esgtrace/store",
			DSN:    ".esgtrace/esgtrace.db",
			TTL:    time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "esgtrace/0.1 (+https://github.com/ppiankov/esgtrace)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Sources: SourceConfig{
			FilingDomains: []string{"sec.gov", "companieshouse.gov.uk", "bseindia.com", "nseindia.com", "cdp.net"},
			NewsDomains:   []string{"reuters.com", "bloomberg.com", "ft.com", "economictimes.indiatimes.com", "theguardian.com"},
			NGODomains:    []string{"greenpeace.org", "wwf.org", "influencemap.org", "climateactiontracker.org"},
			PathPatterns: []PathPatternRule{
				{Pattern: `(?i)/(sustainability|esg|brsr)[-_]?report`, SourceType: "filing"},
				{Pattern: `(?i)/(annual[-_]?report|10-k|20-f)`, SourceType: "filing"},
				{Pattern: `(?i)/(news|press|media)/`, SourceType: "news"},
			},
		},
		Explain: ExplainConfig{
			Provider:  "heuristic",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 400,
			Evidence:  5,
		},
		Output: OutputConfig{
			Dir:      "outputs",
			Markdown: true,
		},
	}
}
