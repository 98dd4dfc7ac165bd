package recipe

import (
	"fmt"

	"github.com/chefvision/server/internal/config"
	"github.com/chefvision/server/internal/services/gemini"
)

// NewDetailsProvider creates the details provider named by the text configuration.
func NewDetailsProvider(cfg config.TextConfig, models gemini.ContentGenerator) (DetailsProvider, error) {
	switch ProviderType(cfg.Provider) {
	case ProviderGemini, "":
		if models == nil {
			return nil, fmt.Errorf("recipe: gemini provider requires a client")
		}
		return NewGeminiProvider(models, cfg.Model), nil
	default:
		return nil, fmt.Errorf("recipe: unknown text provider %q", cfg.Provider)
	}
}
