package llm

import "strings"

// Provider constants
const (
	// DefaultProvider is the default LLM provider
	DefaultProvider = ProviderOpenAI

	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// Providers lists every supported provider.
var Providers = []Provider{ProviderOpenAI, ProviderOllama, ProviderAnthropic, ProviderGemini}

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// DefaultMaxTokens caps a single coaching response.
const DefaultMaxTokens = 1024

var defaultModels = map[Provider]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderOllama:    "llama3.2",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderGemini:    "gemini-2.0-flash",
}

// DefaultModelForProvider returns the default chat model ID for a provider.
func DefaultModelForProvider(p Provider) string {
	return defaultModels[p]
}

// InferProviderFromModel guesses the provider from a model name prefix.
func InferProviderFromModel(model string) (Provider, bool) {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return ProviderOpenAI, true
	case strings.HasPrefix(m, "claude"):
		return ProviderAnthropic, true
	case strings.HasPrefix(m, "gemini"):
		return ProviderGemini, true
	case strings.HasPrefix(m, "llama"), strings.HasPrefix(m, "qwen"), strings.HasPrefix(m, "mistral"), strings.HasPrefix(m, "phi"):
		return ProviderOllama, true
	default:
		return "", false
	}
}
