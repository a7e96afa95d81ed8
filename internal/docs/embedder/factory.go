package embedder

import (
	"fmt"
	"strings"

	"github.com/driftlabs/flowmcp/internal/config"
)

// New creates an embedder from the process configuration.
// Priority:
//  1. Explicit cfg.Provider (openai, local)
//  2. OpenAI if an API key is configured
//  3. Local provider (offline mode)
func New(cfg config.EmbeddingConfig) (Embedder, error) {
	cache := NewCache(10000)

	if cfg.Provider != "" {
		switch strings.ToLower(cfg.Provider) {
		case ProviderOpenAI:
			return NewOpenAIProvider(cfg.APIKey, cache)
		case ProviderLocal:
			return NewLocalProvider(cache)
		default:
			return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedModel, cfg.Provider)
		}
	}

	if cfg.APIKey != "" {
		return NewOpenAIProvider(cfg.APIKey, cache)
	}
	return NewLocalProvider(cache)
}
