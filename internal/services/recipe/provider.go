package recipe

import "context"

// ProviderType names a text-model backend for recipe details.
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
)

// DetailsProvider generates the ingredients and steps for a request.
type DetailsProvider interface {
	GenerateDetails(ctx context.Context, req Request) (*Details, error)
}
