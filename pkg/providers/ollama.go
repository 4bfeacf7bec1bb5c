package providers

import (
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434/v1/"
	defaultOllamaModel   = "tinyllama"
)

// NewOllama builds the local tier. Ollama exposes an OpenAI-compatible
// endpoint, so the same generator speaks to it; localhost needs no API key.
func NewOllama(opts ...ProviderOption) *OpenAIGenerator {
	params := &ProviderParams{Model: defaultOllamaModel}
	for _, opt := range opts {
		opt(params)
	}

	if params.BaseURL == "" {
		params.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		if params.BaseURL == "" {
			params.BaseURL = defaultOllamaBaseURL
		}
	}

	client := openai.NewClient(
		option.WithBaseURL(params.BaseURL),
	)
	return &OpenAIGenerator{
		name:    "ollama",
		client:  client,
		model:   params.Model,
		baseURL: params.BaseURL,
	}
}
