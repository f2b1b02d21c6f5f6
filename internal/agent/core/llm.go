package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mohammad-safakhou/gradpath/config"
)

// LLMProvider is the completion-service boundary: prompt in, text out. Quota,
// policy and transport failures surface as errors; an empty response is not
// an error - the structured-output fallback path of the calling stage handles
// it.
type LLMProvider interface {
	Generate(ctx context.Context, prompt string, model string, options map[string]any) (string, error)
}

// NewLLMProvider creates a new LLM provider based on configuration.
func NewLLMProvider(cfg config.LLMConfig) (LLMProvider, error) {
	if len(cfg.Providers) == 0 {
		return nil, fmt.Errorf("no LLM providers configured")
	}

	for _, provider := range cfg.Providers {
		switch provider.Type {
		case "openai":
			return NewOpenAIProvider(provider), nil
		case "gemini":
			return NewGeminiProvider(provider), nil
		default:
			return nil, fmt.Errorf("unsupported LLM provider type: %s", provider.Type)
		}
	}

	return nil, fmt.Errorf("no valid LLM providers found")
}

// resolveModel returns the API model name plus generation parameters, with
// per-call options taking precedence over the configured model defaults.
func resolveModel(cfg config.LLMProvider, model string, options map[string]any) (string, float64, int, error) {
	m, ok := cfg.Models[model]
	if !ok {
		return "", 0, 0, fmt.Errorf("model %s not configured", model)
	}
	apiModel := m.APIName
	if apiModel == "" {
		apiModel = m.Name
	}
	temperature := m.Temperature
	if t, ok := options["temperature"].(float64); ok {
		temperature = t
	}
	maxTokens := m.MaxTokens
	if mt, ok := options["max_tokens"].(int); ok {
		maxTokens = mt
	}
	return apiModel, temperature, maxTokens, nil
}

// withRetry runs fn up to retries+1 times with exponential backoff. Context
// cancellation stops the loop immediately.
func withRetry(ctx context.Context, retries int, backoff time.Duration, fn func() (string, error)) (string, error) {
	if retries < 0 {
		retries = 0
	}
	if backoff == 0 {
		backoff = 500 * time.Millisecond
	}
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		out, err := fn()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if attempt < retries {
			select {
			case <-time.After(backoff * time.Duration(1<<attempt)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", lastErr
}

// OpenAIProvider implements LLMProvider on the OpenAI chat completions API.
type OpenAIProvider struct {
	cfg    config.LLMProvider
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg config.LLMProvider) *OpenAIProvider {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &OpenAIProvider{cfg: cfg, client: openai.NewClientWithConfig(clientCfg)}
}

// Generate generates text using OpenAI.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, model string, options map[string]any) (string, error) {
	apiModel, temperature, maxTokens, err := resolveModel(p.cfg, model, options)
	if err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model:       apiModel,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: float32(temperature),
		MaxTokens:   maxTokens,
	}

	return withRetry(ctx, p.cfg.MaxRetries, p.cfg.Backoff, func() (string, error) {
		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("openai completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			// No output is not a transport failure; callers fall back.
			return "", nil
		}
		return resp.Choices[0].Message.Content, nil
	})
}

// GeminiProvider implements LLMProvider on the Google generative language API.
type GeminiProvider struct {
	cfg    config.LLMProvider
	client *http.Client
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(cfg config.LLMProvider) *GeminiProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &GeminiProvider{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

// Generate generates text using Gemini.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string, model string, options map[string]any) (string, error) {
	apiModel, temperature, maxTokens, err := resolveModel(p.cfg, model, options)
	if err != nil {
		return "", err
	}

	apiKey := p.cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("gemini API key not configured")
	}

	baseURL := p.cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", baseURL, apiModel, apiKey)

	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     temperature,
			"maxOutputTokens": maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	return withRetry(ctx, p.cfg.MaxRetries, p.cfg.Backoff, func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
		if err != nil {
			return "", fmt.Errorf("request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("gemini completion: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, string(b))
		}

		var out struct {
			Candidates []struct {
				Content struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"content"`
			} `json:"candidates"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", fmt.Errorf("decode: %w", err)
		}
		if len(out.Candidates) == 0 {
			return "", nil
		}
		var sb strings.Builder
		for _, part := range out.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
		return sb.String(), nil
	})
}
