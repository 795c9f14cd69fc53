package llm

import "fmt"

// Provider names accepted by New.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderScript    = "script"
)

// Options configures client construction.
type Options struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string

	// Script supplies the canned responses for the script provider.
	Script []ScriptedResponse
}

// New builds a Client for the named provider.
func New(opts Options) (Client, error) {
	switch opts.Provider {
	case ProviderAnthropic, "":
		return NewAnthropicClient(opts.Model, opts.APIKey)
	case ProviderOpenAI:
		return NewOpenAIClient(opts.Model, opts.APIKey, opts.BaseURL)
	case ProviderScript:
		return NewScriptedClient(opts.Model, opts.Script...), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want anthropic, openai, or script)", opts.Provider)
	}
}
