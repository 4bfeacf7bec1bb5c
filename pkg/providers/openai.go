package providers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/OmriLeviGit/agentic-assignment/pkg/agent"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1/"
	defaultOpenAIModel   = "gpt-4o-mini"

	probeTimeout = 3 * time.Second
)

// OpenAIGenerator speaks to any chat-completion backend that follows the
// OpenAI protocol. The base URL is overridable, which is also how the local
// Ollama tier connects.
type OpenAIGenerator struct {
	name    string
	client  *openai.Client
	model   string
	baseURL string
}

// NewOpenAI builds the hosted OpenAI tier. The API key comes from options or
// OPENAI_API_KEY; without one the tier is reported unavailable up front.
func NewOpenAI(opts ...ProviderOption) (*OpenAIGenerator, error) {
	params := &ProviderParams{Model: defaultOpenAIModel}
	for _, opt := range opts {
		opt(params)
	}

	if params.BaseURL == "" {
		params.BaseURL = os.Getenv("OPENAI_API_BASE_URL")
		if params.BaseURL == "" {
			params.BaseURL = defaultOpenAIBaseURL
		}
	}
	if params.APIKey == "" {
		params.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if params.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set: %w", ErrUnavailable)
	}

	client := openai.NewClient(
		option.WithAPIKey(params.APIKey),
		option.WithBaseURL(params.BaseURL),
	)
	return &OpenAIGenerator{
		name:    "openai",
		client:  client,
		model:   params.Model,
		baseURL: params.BaseURL,
	}, nil
}

func (g *OpenAIGenerator) Name() string {
	return g.name
}

// Generate implements agent.TextGenerator.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, opts agent.GenerateOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model: openai.F(g.model),
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.F(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.F(opts.MaxTokens)
	}

	chatCompletion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s completion: %v: %w", g.name, err, ErrUnavailable)
	}
	if len(chatCompletion.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices: %w", g.name, ErrUnavailable)
	}
	return chatCompletion.Choices[0].Message.Content, nil
}

// Available probes the backend with a bounded model listing. It is meant to
// run once at chain resolution, not per call.
func (g *OpenAIGenerator) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := g.client.Models.List(probeCtx)
	return err == nil
}
