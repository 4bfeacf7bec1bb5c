package providers

import (
	"context"
	"errors"
	"testing"
)

func TestNewOpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewOpenAI()
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewOpenAI() error = %v, want ErrUnavailable", err)
	}
}

func TestNewOpenAIWithKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	g, err := NewOpenAI(WithAPIKey("test-key"), WithModel("gpt-4o"))
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}
	if g.Name() != "openai" {
		t.Errorf("Name() = %q, want %q", g.Name(), "openai")
	}
	if g.model != "gpt-4o" {
		t.Errorf("model = %q, want %q", g.model, "gpt-4o")
	}
	if g.baseURL != defaultOpenAIBaseURL {
		t.Errorf("baseURL = %q, want default %q", g.baseURL, defaultOpenAIBaseURL)
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := NewGemini(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewGemini() error = %v, want ErrUnavailable", err)
	}
}

func TestNewOllamaDefaults(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "")

	g := NewOllama()
	if g.Name() != "ollama" {
		t.Errorf("Name() = %q, want %q", g.Name(), "ollama")
	}
	if g.baseURL != defaultOllamaBaseURL {
		t.Errorf("baseURL = %q, want %q", g.baseURL, defaultOllamaBaseURL)
	}
	if g.model != defaultOllamaModel {
		t.Errorf("model = %q, want %q", g.model, defaultOllamaModel)
	}
}

func TestNewOllamaHonorsEnvAndOptions(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://ollama.internal:11434/v1/")

	g := NewOllama()
	if g.baseURL != "http://ollama.internal:11434/v1/" {
		t.Errorf("baseURL = %q, want env override", g.baseURL)
	}

	g = NewOllama(WithBaseURL("http://other:9999/v1/"), WithModel("llama3"))
	if g.baseURL != "http://other:9999/v1/" {
		t.Errorf("baseURL = %q, want option override", g.baseURL)
	}
	if g.model != "llama3" {
		t.Errorf("model = %q, want %q", g.model, "llama3")
	}
}
