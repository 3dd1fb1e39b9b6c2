package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pathlight-utils/internal/config"
	"pathlight-utils/internal/logging"
	"pathlight-utils/pkg/models"
)

// Client fetches resume snapshots from the main application's internal API
// and pushes skill additions back to it
type Client struct {
	config     *config.Config
	httpClient *http.Client
	logger     logging.Logger
	// backoffUnit scales the linear retry backoff; shortened in tests
	backoffUnit time.Duration
}

// NewClient creates a new snapshot client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Snapshot.Timeout,
		},
		logger:      logging.GetGlobalLogger(),
		backoffUnit: time.Second,
	}
}

// fetchPayload matches the main application's resume endpoint schema
type fetchPayload struct {
	ProfileSummary   string                  `json:"profile_summary"`
	Skills           []string                `json:"skills"`
	NarrativeStories []models.NarrativeStory `json:"narrative_stories"`
	WorkHistory      []models.WorkExperience `json:"work_history"`
}

// Fetch loads the user's current resume content. Transient failures are
// retried with linear backoff up to the configured maximum.
func (c *Client) Fetch(ctx context.Context, userID string) (*models.ResumeSnapshot, error) {
	url := fmt.Sprintf("%s/internal/users/%s/resume", c.config.Snapshot.BaseURL, userID)

	var lastErr error
	for attempt := 0; attempt <= c.config.Snapshot.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.backoffUnit
			c.logger.Debug("Retrying snapshot fetch", map[string]interface{}{
				"user_id": userID,
				"attempt": attempt,
				"backoff": backoff,
			})
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		snapshot, retryable, err := c.fetchOnce(ctx, url)
		if err == nil {
			return snapshot, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("failed to fetch resume snapshot: %w", lastErr)
}

// fetchOnce performs a single fetch attempt. The second return value reports
// whether the failure is worth retrying.
func (c *Client) fetchOnce(ctx context.Context, url string) (*models.ResumeSnapshot, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		// User has no resume yet; matching proceeds against empty content
		return &models.ResumeSnapshot{}, false, nil
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("resume endpoint returned status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("resume endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	var payload fetchPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false, fmt.Errorf("failed to decode resume payload: %w", err)
	}

	snapshot := &models.ResumeSnapshot{
		ProfileSummary:   payload.ProfileSummary,
		Skills:           payload.Skills,
		NarrativeStories: payload.NarrativeStories,
		WorkHistory:      payload.WorkHistory,
	}
	snapshot.DedupeSkills()

	return snapshot, false, nil
}

// AddSkill appends a skill to the user's stored resume in the main
// application. Duplicate additions are resolved server-side.
func (c *Client) AddSkill(ctx context.Context, userID, skill string) error {
	url := fmt.Sprintf("%s/internal/users/%s/resume/skills", c.config.Snapshot.BaseURL, userID)

	payload, err := json.Marshal(map[string]string{"skill": skill})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to add skill: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("skill endpoint returned status %d", resp.StatusCode)
	}

	c.logger.Debug("Skill added to user resume", map[string]interface{}{
		"user_id": userID,
		"skill":   skill,
	})

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.config.Snapshot.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Snapshot.Token)
	}
	req.Header.Set("Accept", "application/json")
}
