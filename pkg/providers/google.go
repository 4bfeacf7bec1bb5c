package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/OmriLeviGit/agentic-assignment/pkg/agent"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash-exp"

// GeminiGenerator serves the primary remote tier through the Google GenAI
// API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGemini builds the Gemini tier. The API key comes from options or
// GEMINI_API_KEY; without one the tier is reported unavailable up front.
func NewGemini(ctx context.Context, opts ...ProviderOption) (*GeminiGenerator, error) {
	params := &ProviderParams{Model: defaultGeminiModel}
	for _, opt := range opts {
		opt(params)
	}

	apiKey := params.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set: %w", ErrUnavailable)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGoogleAI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %v: %w", err, ErrUnavailable)
	}
	return &GeminiGenerator{
		client: client,
		model:  params.Model,
	}, nil
}

func (g *GeminiGenerator) Name() string {
	return "gemini"
}

// Generate implements agent.TextGenerator. Generation options are tuned for
// the protocol tiers; Gemini runs with its model defaults.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, _ agent.GenerateOptions) (string, error) {
	parts := []*genai.Part{
		{Text: prompt},
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{{Parts: parts}}, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %v: %w", err, ErrUnavailable)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates: %w", ErrUnavailable)
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
