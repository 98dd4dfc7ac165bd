package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	// GeminiKey backs the recipe-detail and nutrition generators.
	GeminiKey string
	// HuggingFaceKey is the image proxy's server-side credential.
	HuggingFaceKey string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port string

	Text         TextConfig
	Image        ImageConfig
	Orchestrator OrchestratorConfig
}

type TextConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

type ImageConfig struct {
	// Mode is "local" to run the proxy in-process or "remote" to call ProxyURL.
	Mode     string `yaml:"mode"`
	ProxyURL string `yaml:"proxy_url"`
	// Models is the ordered fallback chain, each entry "provider:model".
	Models         []string      `yaml:"models"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
}

type OrchestratorConfig struct {
	DetailsTimeout   time.Duration `yaml:"details_timeout"`
	NutritionTimeout time.Duration `yaml:"nutrition_timeout"`
	ImageTimeout     time.Duration `yaml:"image_timeout"`
}

// ModelRef is one parsed entry of ImageConfig.Models.
type ModelRef struct {
	Provider string
	Model    string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		GeminiKey:                os.Getenv("GEMINI_API_KEY"),
		HuggingFaceKey:           os.Getenv("HUGGINGFACE_API_KEY"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
	}
	cfg.Image.ProxyURL = os.Getenv("IMAGE_PROXY_URL")

	// Load from YAML file if available
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if err := cfg.LoadFromYAML(path); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "chefvision-server"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "4000"
	}

	cfg.SetTextDefaults()
	cfg.SetImageDefaults()
	cfg.SetOrchestratorDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Text         TextConfig         `yaml:"text"`
		Image        ImageConfig        `yaml:"image"`
		Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlConfig.Text.Provider != "" {
		c.Text.Provider = yamlConfig.Text.Provider
	}
	if yamlConfig.Text.Model != "" {
		c.Text.Model = yamlConfig.Text.Model
	}

	if yamlConfig.Image.Mode != "" {
		c.Image.Mode = yamlConfig.Image.Mode
	}
	if yamlConfig.Image.ProxyURL != "" && c.Image.ProxyURL == "" {
		c.Image.ProxyURL = yamlConfig.Image.ProxyURL
	}
	if len(yamlConfig.Image.Models) > 0 {
		c.Image.Models = yamlConfig.Image.Models
	}
	if yamlConfig.Image.AttemptTimeout > 0 {
		c.Image.AttemptTimeout = yamlConfig.Image.AttemptTimeout
	}

	if yamlConfig.Orchestrator.DetailsTimeout > 0 {
		c.Orchestrator.DetailsTimeout = yamlConfig.Orchestrator.DetailsTimeout
	}
	if yamlConfig.Orchestrator.NutritionTimeout > 0 {
		c.Orchestrator.NutritionTimeout = yamlConfig.Orchestrator.NutritionTimeout
	}
	if yamlConfig.Orchestrator.ImageTimeout > 0 {
		c.Orchestrator.ImageTimeout = yamlConfig.Orchestrator.ImageTimeout
	}

	return nil
}

func (c *Config) SetTextDefaults() {
	if c.Text.Provider == "" {
		c.Text.Provider = "gemini"
	}
	if c.Text.Model == "" {
		c.Text.Model = "gemini-2.5-flash"
	}
}

func (c *Config) SetImageDefaults() {
	if c.Image.Mode == "" {
		if c.Image.ProxyURL != "" {
			c.Image.Mode = "remote"
		} else {
			c.Image.Mode = "local"
		}
	}
	if len(c.Image.Models) == 0 {
		c.Image.Models = []string{
			"huggingface:black-forest-labs/FLUX.1-dev",
			"huggingface:runwayml/stable-diffusion-v1-5",
		}
	}
	if c.Image.AttemptTimeout <= 0 {
		c.Image.AttemptTimeout = 60 * time.Second
	}
}

func (c *Config) SetOrchestratorDefaults() {
	if c.Orchestrator.DetailsTimeout <= 0 {
		c.Orchestrator.DetailsTimeout = 60 * time.Second
	}
	if c.Orchestrator.NutritionTimeout <= 0 {
		c.Orchestrator.NutritionTimeout = 30 * time.Second
	}
	if c.Orchestrator.ImageTimeout <= 0 {
		// Two sequential model attempts plus encoding.
		c.Orchestrator.ImageTimeout = 2*c.Image.AttemptTimeout + 5*time.Second
	}
}

// ImageModels parses the configured image chain.
func (c *Config) ImageModels() ([]ModelRef, error) {
	refs := make([]ModelRef, 0, len(c.Image.Models))
	for _, entry := range c.Image.Models {
		provider, model, ok := strings.Cut(entry, ":")
		if !ok || provider == "" || model == "" {
			return nil, fmt.Errorf("invalid image model %q: expected provider:model", entry)
		}
		refs = append(refs, ModelRef{Provider: provider, Model: model})
	}
	return refs, nil
}

// OTLPHeaders parses OTEL_EXPORTER_OTLP_HEADERS ("k1=v1,k2=v2").
func (c *Config) OTLPHeaders() map[string]string {
	if c.OtelExporterOTLPHeaders == "" {
		return nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(c.OtelExporterOTLPHeaders, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers
}

func (c *Config) validate() error {
	if c.GeminiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Image.Mode != "local" && c.Image.Mode != "remote" {
		return fmt.Errorf("image.mode must be local or remote, got %q", c.Image.Mode)
	}
	if c.Image.Mode == "remote" && c.Image.ProxyURL == "" {
		return fmt.Errorf("IMAGE_PROXY_URL is required when image.mode is remote")
	}
	if _, err := c.ImageModels(); err != nil {
		return err
	}
	return nil
}
