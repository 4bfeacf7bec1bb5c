// Package providers hosts the text generation backends an advised agent can
// consult: Gemini and OpenAI remotely, Ollama locally. Every backend failure
// is folded into ErrUnavailable; callers pick the next tier instead of
// diagnosing transport, auth or rate-limit causes.
package providers

import "errors"

// ErrUnavailable is the single condition all backend failures map to.
var ErrUnavailable = errors.New("text generation unavailable")

type ProviderParams struct {
	BaseURL string
	APIKey  string
	Model   string
}

type ProviderOption func(*ProviderParams)

func WithBaseURL(baseURL string) ProviderOption {
	return func(p *ProviderParams) {
		p.BaseURL = baseURL
	}
}

func WithAPIKey(apiKey string) ProviderOption {
	return func(p *ProviderParams) {
		p.APIKey = apiKey
	}
}

func WithModel(model string) ProviderOption {
	return func(p *ProviderParams) {
		p.Model = model
	}
}
