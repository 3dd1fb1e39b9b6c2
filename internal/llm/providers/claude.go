package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"pathlight-utils/internal/config"
	"pathlight-utils/internal/llm/processors"
	"pathlight-utils/internal/logging"
	"pathlight-utils/pkg/models"
)

// ClaudeProvider implements the AI provider interface using Anthropic's Claude
type ClaudeProvider struct {
	client    anthropic.Client
	config    *config.Config
	jdCleaner *processors.JDCleaner
	logger    logging.Logger
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.LLM.APIKey),
	)

	return &ClaudeProvider{
		client:    client,
		config:    cfg,
		jdCleaner: processors.NewJDCleaner(),
		logger:    logging.GetGlobalLogger(),
	}
}

// ExtractKeywords extracts ranked, categorized keywords from job description
// text using Claude
func (cp *ClaudeProvider) ExtractKeywords(ctx context.Context, jobDescription, jobTitle, companyName string) ([]models.Keyword, error) {
	startTime := time.Now()

	cp.logger.Info("Starting keyword extraction with Claude", map[string]interface{}{
		"jd_length": len(jobDescription),
		"job_title": jobTitle,
		"provider":  "claude",
	})

	// Pasted job descriptions often carry markup; strip before prompting
	cleaned := cp.jdCleaner.Clean(jobDescription)

	// Truncate if necessary to fit token limits
	maxContentLength := cp.config.LLM.MaxTokens * 3 // Rough estimation: 3 chars per token
	if len(cleaned) > maxContentLength {
		cleaned = cleaned[:maxContentLength] + "..."
		cp.logger.Debug("Job description truncated to fit token limits")
	}

	prompt := cp.buildExtractionPrompt(cleaned, jobTitle, companyName)

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cp.config.LLM.Model),
		MaxTokens:   int64(cp.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	keywords, err := parseKeywordResponse(responseText(response))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Claude response: %w", err)
	}

	keywords = normalizeKeywords(keywords, cp.config.Analyzer.MaxKeywords)

	cp.logger.Info("Keyword extraction completed successfully", map[string]interface{}{
		"keyword_count":   len(keywords),
		"processing_time": time.Since(startTime),
		"provider":        "claude",
	})

	return keywords, nil
}

// JudgeKeywordMatches asks Claude for a semantic match verdict per keyword
// against the candidate's resume text
func (cp *ClaudeProvider) JudgeKeywordMatches(ctx context.Context, resumeText string, keywords []models.Keyword) ([]models.Keyword, error) {
	if len(keywords) == 0 {
		return keywords, nil
	}

	startTime := time.Now()

	prompt := cp.buildJudgingPrompt(resumeText, keywords)

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cp.config.LLM.Model),
		MaxTokens: int64(cp.config.LLM.MaxTokens),
		// Low temperature for consistent verdicts
		Temperature: anthropic.Float(0.1),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	verdicts, err := parseVerdictResponse(responseText(response))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Claude response: %w", err)
	}

	judged := applyVerdicts(keywords, verdicts)

	cp.logger.Info("Semantic match judging completed", map[string]interface{}{
		"keyword_count":   len(keywords),
		"verdict_count":   len(verdicts),
		"processing_time": time.Since(startTime),
		"provider":        "claude",
	})

	return judged, nil
}

// buildExtractionPrompt creates the prompt for Claude to extract keywords
func (cp *ClaudeProvider) buildExtractionPrompt(jobDescription, jobTitle, companyName string) string {
	var context string
	if jobTitle != "" {
		context += fmt.Sprintf("Job title: %s\n", jobTitle)
	}
	if companyName != "" {
		context += fmt.Sprintf("Company: %s\n", companyName)
	}

	return fmt.Sprintf(`You are an expert in recruiting and resume optimization. Analyze this job description and extract the %d most important keywords for optimizing a resume against it.

%sJOB DESCRIPTION:
%s

Classify each keyword into one of these categories:
- skill: specific technical abilities
- soft_skill: interpersonal abilities
- technical: technical knowledge areas
- certification: required certifications
- experience: experience level requirements
- industry: industry terms

Assign a priority (high/medium/low) and suggest where it belongs in the resume:
- profile: professional profile summary
- skills: skills section
- accomplishments: accomplishment stories
- work_experience: work experience descriptions

Return ONLY a valid JSON array with exactly this structure, no additional text:
[
  {
    "keyword": "the keyword",
    "category": "skill|soft_skill|technical|certification|experience|industry",
    "priority": "high|medium|low",
    "target_section": "profile|skills|accomplishments|work_experience"
  }
]`, cp.config.Analyzer.MaxKeywords, context, jobDescription)
}

// buildJudgingPrompt creates the prompt for Claude to judge semantic matches
func (cp *ClaudeProvider) buildJudgingPrompt(resumeText string, keywords []models.Keyword) string {
	terms := make([]string, len(keywords))
	for i, kw := range keywords {
		terms[i] = kw.Text
	}

	return fmt.Sprintf(`You are an expert in recruiting and resume analysis. Evaluate whether the candidate's skills and experience match each required keyword, using semantic analysis rather than exact text matching.

CANDIDATE RESUME:
%s

KEYWORDS TO EVALUATE:
%s

For each keyword, determine if the candidate has DEMONSTRATED experience or skills matching the requirement. Use semantic matching, not just textual. For example:
- "Project coordination" matches "Project Management"
- "Built reporting dashboards" matches "Dashboard creation"
- "Data pipelines" matches "ETL processes"

Return ONLY a valid JSON array with exactly this structure, no additional text:
[
  {
    "keyword": "exact keyword text",
    "matched": true,
    "rationale": "brief explanation of why it matches or not"
  }
]`, resumeText, strings.Join(terms, ", "))
}

// IsHealthy checks if the Claude provider is healthy and available
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	if cp.config.LLM.APIKey == "" {
		return fmt.Errorf("Claude API key not configured - set LLM_API_KEY environment variable")
	}

	_, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cp.config.LLM.Model),
		MaxTokens: 500,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "Hello"},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})

	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the AI provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}

// responseText pulls the first text block out of a Claude response
func responseText(response *anthropic.Message) string {
	if response == nil || len(response.Content) == 0 {
		return ""
	}

	for _, content := range response.Content {
		textContent := content.AsText()
		return textContent.Text
	}

	return ""
}

// rawKeyword matches the extraction response schema
type rawKeyword struct {
	Keyword       string `json:"keyword"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	TargetSection string `json:"target_section"`
}

// matchVerdict matches the judging response schema
type matchVerdict struct {
	Keyword   string `json:"keyword"`
	Matched   bool   `json:"matched"`
	Rationale string `json:"rationale"`
}

var jsonArrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

// stripResponse removes markdown code fences and surrounding prose, falling
// back to the first bracketed array in the text
func stripResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	if !strings.HasPrefix(cleaned, "[") {
		if match := jsonArrayPattern.FindString(cleaned); match != "" {
			cleaned = match
		}
	}

	return cleaned
}

// parseKeywordResponse parses the extraction response into keywords
func parseKeywordResponse(raw string) ([]models.Keyword, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty response from Claude")
	}

	cleaned := stripResponse(raw)

	var rawKeywords []rawKeyword
	if err := json.Unmarshal([]byte(cleaned), &rawKeywords); err != nil {
		return nil, fmt.Errorf("failed to parse keyword JSON: %w", err)
	}

	keywords := make([]models.Keyword, 0, len(rawKeywords))
	for _, rk := range rawKeywords {
		keywords = append(keywords, models.Keyword{
			Text:          rk.Keyword,
			Category:      models.KeywordCategory(rk.Category),
			Priority:      models.KeywordPriority(rk.Priority),
			TargetSection: models.TargetSection(rk.TargetSection),
		})
	}

	return keywords, nil
}

// parseVerdictResponse parses the judging response into verdicts
func parseVerdictResponse(raw string) ([]matchVerdict, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty response from Claude")
	}

	cleaned := stripResponse(raw)

	var verdicts []matchVerdict
	if err := json.Unmarshal([]byte(cleaned), &verdicts); err != nil {
		return nil, fmt.Errorf("failed to parse verdict JSON: %w", err)
	}

	return verdicts, nil
}

// normalizeKeywords trims, defaults metadata, drops empties and
// case-insensitive duplicates, and caps the list at max
func normalizeKeywords(keywords []models.Keyword, max int) []models.Keyword {
	seen := make(map[string]bool, len(keywords))
	normalized := make([]models.Keyword, 0, len(keywords))

	for _, kw := range keywords {
		if !kw.Normalize() {
			continue
		}

		key := strings.ToLower(kw.Text)
		if seen[key] {
			continue
		}
		seen[key] = true

		normalized = append(normalized, kw)
		if max > 0 && len(normalized) >= max {
			break
		}
	}

	return normalized
}

// applyVerdicts merges judge verdicts back into the keyword list by
// case-insensitive text. Keywords without a verdict keep their current state.
func applyVerdicts(keywords []models.Keyword, verdicts []matchVerdict) []models.Keyword {
	byText := make(map[string]matchVerdict, len(verdicts))
	for _, v := range verdicts {
		byText[strings.ToLower(strings.TrimSpace(v.Keyword))] = v
	}

	result := make([]models.Keyword, len(keywords))
	copy(result, keywords)

	for i := range result {
		if v, ok := byText[strings.ToLower(strings.TrimSpace(result[i].Text))]; ok {
			result[i].Matched = v.Matched
			result[i].MatchRationale = v.Rationale
		}
	}

	return result
}
