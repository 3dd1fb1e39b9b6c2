package llm

import (
	"context"
	"fmt"
	"sync"

	"pathlight-utils/internal/config"
	"pathlight-utils/internal/logging"
	"pathlight-utils/pkg/models"
)

// Manager manages AI providers and their lifecycle
type Manager struct {
	config   *config.Config
	factory  *Factory
	provider Provider
	logger   logging.Logger
	mu       sync.RWMutex
	healthy  bool
}

// NewManager creates a new AI manager instance
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config:  cfg,
		factory: NewFactory(cfg),
		logger:  logging.GetGlobalLogger(),
	}
}

// Start initializes the manager and creates the provider
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting AI manager", map[string]interface{}{
		"provider": m.config.LLM.Provider,
	})

	provider, err := m.factory.CreateProvider()
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}

	m.provider = provider

	// Test provider health
	ctx, cancel := context.WithTimeout(context.Background(), m.config.LLM.Timeout)
	defer cancel()

	if err := m.provider.IsHealthy(ctx); err != nil {
		m.logger.Warn("AI provider health check failed - analysis features will be degraded", map[string]interface{}{
			"error": err.Error(),
		})
		m.healthy = false
		// Don't return error - allow server to start without the provider
	} else {
		m.healthy = true
		m.logger.Info("AI manager started successfully", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
		})
	}

	return nil
}

// Stop shuts down the manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping AI manager")
	m.provider = nil
	m.healthy = false
	return nil
}

// ExtractKeywords extracts keywords from job description text using the
// configured provider
func (m *Manager) ExtractKeywords(ctx context.Context, jobDescription, jobTitle, companyName string) ([]models.Keyword, error) {
	m.mu.RLock()
	provider := m.provider
	healthy := m.healthy
	m.mu.RUnlock()

	if provider == nil {
		return nil, fmt.Errorf("AI manager not started or provider not available")
	}

	if !healthy {
		return nil, fmt.Errorf("AI provider is not available - check API key configuration (set LLM_API_KEY environment variable)")
	}

	return provider.ExtractKeywords(ctx, jobDescription, jobTitle, companyName)
}

// JudgeKeywordMatches delegates semantic match judging to the configured
// provider
func (m *Manager) JudgeKeywordMatches(ctx context.Context, resumeText string, keywords []models.Keyword) ([]models.Keyword, error) {
	m.mu.RLock()
	provider := m.provider
	healthy := m.healthy
	m.mu.RUnlock()

	if provider == nil {
		return nil, fmt.Errorf("AI manager not started or provider not available")
	}

	if !healthy {
		return nil, fmt.Errorf("AI provider is not available")
	}

	return provider.JudgeKeywordMatches(ctx, resumeText, keywords)
}

// IsHealthy checks if the manager and provider are healthy
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// CheckHealth performs a health check on the provider
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return fmt.Errorf("AI provider not available")
	}

	err := provider.IsHealthy(ctx)

	m.mu.Lock()
	m.healthy = (err == nil)
	m.mu.Unlock()

	return err
}
