package providers

import (
	"context"
	"log"

	"github.com/OmriLeviGit/agentic-assignment/pkg/agent"
)

// DefaultChain resolves the advisory tiers once, in consultation order:
// a remote tier first (Gemini, then OpenAI, whichever has credentials),
// then the local Ollama tier if its endpoint answers. Tiers that cannot
// possibly serve are left out here rather than taxing every step with a
// doomed call.
func DefaultChain(ctx context.Context) []agent.TextGenerator {
	var chain []agent.TextGenerator

	if gemini, err := NewGemini(ctx); err == nil {
		chain = append(chain, gemini)
	} else if oai, err := NewOpenAI(); err == nil {
		chain = append(chain, oai)
	} else {
		log.Println("providers: no remote tier configured, set GEMINI_API_KEY or OPENAI_API_KEY to enable one")
	}

	local := NewOllama()
	if local.Available(ctx) {
		chain = append(chain, local)
	} else {
		log.Println("providers: local tier not answering at", local.baseURL)
	}

	return chain
}
