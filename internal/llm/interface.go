package llm

import (
	"context"

	"pathlight-utils/pkg/models"
)

// Provider defines the interface for AI text-analysis providers. Both calls
// share the same upstream dependency with different request shapes, so the
// rest of the analysis logic stays deterministic and testable without a
// live network.
type Provider interface {
	// ExtractKeywords extracts ranked, categorized keywords from job
	// description text. Job title and company name are optional context.
	ExtractKeywords(ctx context.Context, jobDescription, jobTitle, companyName string) ([]models.Keyword, error)

	// JudgeKeywordMatches asks for a semantic match verdict for each
	// keyword against the formatted resume text. Returned keywords carry
	// updated Matched flags and rationales.
	JudgeKeywordMatches(ctx context.Context, resumeText string, keywords []models.Keyword) ([]models.Keyword, error)

	// IsHealthy checks if the provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the provider
	GetProviderName() string
}
