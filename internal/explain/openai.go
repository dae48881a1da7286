package explain

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/esgtrace/internal/model"
	"github.com/ppiankov/esgtrace/internal/util"
)

const systemPrompt = "You assess corporate ESG claims against the evidence snippets provided. " +
	"Use only the given snippets, state when evidence is missing, and answer with a single JSON object."

// OpenAIProvider asks an OpenAI-compatible chat model for explanations
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewOpenAIProvider creates a provider from the explain and HTTP settings
func NewOpenAIProvider(cfg model.ExplainConfig, httpCfg model.HTTPConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, eris.New("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = util.NewHTTPClient(httpCfg)

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     m,
		maxTokens: cfg.MaxTokens,
		timeout:   timeout,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Explain sends the prompt and decodes the JSON answer
func (p *OpenAIProvider) Explain(ctx context.Context, req Request) (*Response, error) {
	m := req.Model
	if m == "" {
		m = p.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.maxTokens
	}
	if maxTokens == 0 {
		maxTokens = 400
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "openai: explain %s", req.ClaimID)
	}
	if len(resp.Choices) == 0 {
		return nil, eris.Errorf("openai: no choices for %s", req.ClaimID)
	}

	out, err := parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, eris.Wrapf(err, "openai: explain %s", req.ClaimID)
	}
	out.Model = resp.Model
	if out.Model == "" {
		out.Model = m
	}
	return out, nil
}

// parseResponse extracts the JSON object from a model answer, tolerating
// code fences and surrounding prose
func parseResponse(content string) (*Response, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return nil, eris.Errorf("no JSON object in response %q", truncate(content, 80))
	}

	var out Response
	if err := json.Unmarshal([]byte(content[start:end+1]), &out); err != nil {
		return nil, eris.Wrap(err, "decode response")
	}
	if strings.TrimSpace(out.Summary) == "" {
		return nil, eris.New("response has no summary")
	}
	out.normalize()
	return &out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
