package image

import (
	"fmt"
	"net/http"

	"github.com/chefvision/server/internal/config"
	"github.com/chefvision/server/internal/services/gemini"
)

// Provider names accepted in the image model chain.
const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
)

// NewProxyFromConfig builds the in-process proxy from the configured model chain.
func NewProxyFromConfig(cfg *config.Config, models gemini.ContentGenerator, client *http.Client) (*Proxy, error) {
	refs, err := cfg.ImageModels()
	if err != nil {
		return nil, err
	}

	chain := make([]Model, 0, len(refs))
	for _, ref := range refs {
		switch ref.Provider {
		case ProviderHuggingFace:
			opts := []HuggingFaceOption{}
			if client != nil {
				opts = append(opts, WithHTTPClient(client))
			}
			chain = append(chain, NewHuggingFaceModel(ref.Model, cfg.HuggingFaceKey, opts...))
		case ProviderGemini:
			chain = append(chain, NewGeminiImageModel(models, ref.Model))
		default:
			return nil, fmt.Errorf("image: unknown model provider %q", ref.Provider)
		}
	}
	return NewProxy(chain, cfg.Image.AttemptTimeout), nil
}

// NewGenerator returns the generator the orchestrator should use: the local
// proxy itself in "local" mode, or a client for a remote proxy in "remote" mode.
func NewGenerator(cfg *config.Config, local *Proxy, client *http.Client) (Generator, error) {
	switch cfg.Image.Mode {
	case "local", "":
		if local == nil {
			return nil, fmt.Errorf("image: local mode requires a proxy")
		}
		return local, nil
	case "remote":
		if cfg.Image.ProxyURL == "" {
			return nil, fmt.Errorf("image: remote mode requires a proxy URL")
		}
		return NewRemoteProxy(cfg.Image.ProxyURL, client), nil
	default:
		return nil, fmt.Errorf("image: unknown mode %q", cfg.Image.Mode)
	}
}
