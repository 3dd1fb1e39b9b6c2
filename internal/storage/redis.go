package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"pathlight-utils/internal/analyzer"
	"pathlight-utils/internal/config"
	"pathlight-utils/internal/logging"
	"pathlight-utils/pkg/models"
)

// RedisStore persists analyses and tailored resumes as JSON documents with
// per-user index sets for listing
type RedisStore struct {
	client *redis.Client
	config *config.Config
	logger logging.Logger
}

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(cfg *config.Config) *RedisStore {
	// Parse Redis URL
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	// Configure timeouts
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	return &RedisStore{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// Ping tests the Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// IsHealthy checks if Redis is connected and healthy
func (r *RedisStore) IsHealthy(ctx context.Context) error {
	return r.Ping(ctx)
}

// SaveAnalysis persists one analysis document and registers it in the user's
// index set. Re-saving an existing ID overwrites the document.
func (r *RedisStore) SaveAnalysis(ctx context.Context, analysis *models.JDAnalysis) error {
	key := r.analysisKey(analysis.UserID, analysis.ID)

	doc, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, doc, 0)
	pipe.SAdd(ctx, r.analysisIndexKey(analysis.UserID), analysis.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	return nil
}

// GetAnalysis retrieves one analysis scoped to the user
func (r *RedisStore) GetAnalysis(ctx context.Context, userID, analysisID string) (*models.JDAnalysis, error) {
	doc, err := r.client.Get(ctx, r.analysisKey(userID, analysisID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("%w: analysis %s", analyzer.ErrNotFound, analysisID)
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var analysis models.JDAnalysis
	if err := json.Unmarshal([]byte(doc), &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}

	return &analysis, nil
}

// ListAnalyses returns all analyses for a user, newest first. Index entries
// whose document has gone missing are skipped.
func (r *RedisStore) ListAnalyses(ctx context.Context, userID string) ([]*models.JDAnalysis, error) {
	ids, err := r.client.SMembers(ctx, r.analysisIndexKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	analyses := make([]*models.JDAnalysis, 0, len(ids))
	for _, id := range ids {
		analysis, err := r.GetAnalysis(ctx, userID, id)
		if err != nil {
			continue
		}
		analyses = append(analyses, analysis)
	}

	sort.Slice(analyses, func(i, j int) bool {
		return analyses[i].CreatedAt.After(analyses[j].CreatedAt)
	})

	return analyses, nil
}

// DeleteAnalysis removes one analysis and its index entry
func (r *RedisStore) DeleteAnalysis(ctx context.Context, userID, analysisID string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.analysisKey(userID, analysisID))
	pipe.SRem(ctx, r.analysisIndexKey(userID), analysisID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	return nil
}

// SaveTailoredResume persists one tailored resume document and registers it
// in the user's index set and the source analysis's index set
func (r *RedisStore) SaveTailoredResume(ctx context.Context, resume *models.TailoredResume) error {
	key := r.tailoredKey(resume.UserID, resume.ID)

	doc, err := json.Marshal(resume)
	if err != nil {
		return fmt.Errorf("failed to marshal tailored resume: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, doc, 0)
	pipe.SAdd(ctx, r.tailoredIndexKey(resume.UserID), resume.ID)
	pipe.SAdd(ctx, r.tailoredByAnalysisKey(resume.UserID, resume.SourceAnalysisID), resume.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save tailored resume: %w", err)
	}

	return nil
}

// GetTailoredResume retrieves one tailored resume scoped to the user
func (r *RedisStore) GetTailoredResume(ctx context.Context, userID, resumeID string) (*models.TailoredResume, error) {
	doc, err := r.client.Get(ctx, r.tailoredKey(userID, resumeID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("%w: tailored resume %s", analyzer.ErrNotFound, resumeID)
		}
		return nil, fmt.Errorf("failed to get tailored resume: %w", err)
	}

	var resume models.TailoredResume
	if err := json.Unmarshal([]byte(doc), &resume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tailored resume: %w", err)
	}

	return &resume, nil
}

// ListTailoredResumes returns all tailored resumes for a user, newest first
func (r *RedisStore) ListTailoredResumes(ctx context.Context, userID string) ([]*models.TailoredResume, error) {
	ids, err := r.client.SMembers(ctx, r.tailoredIndexKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tailored resumes: %w", err)
	}

	resumes := make([]*models.TailoredResume, 0, len(ids))
	for _, id := range ids {
		resume, err := r.GetTailoredResume(ctx, userID, id)
		if err != nil {
			continue
		}
		resumes = append(resumes, resume)
	}

	sort.Slice(resumes, func(i, j int) bool {
		return resumes[i].CreatedAt.After(resumes[j].CreatedAt)
	})

	return resumes, nil
}

// ListTailoredByAnalysis returns the tailored resumes cut from one analysis,
// newest first
func (r *RedisStore) ListTailoredByAnalysis(ctx context.Context, userID, analysisID string) ([]*models.TailoredResume, error) {
	ids, err := r.client.SMembers(ctx, r.tailoredByAnalysisKey(userID, analysisID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tailored resumes: %w", err)
	}

	resumes := make([]*models.TailoredResume, 0, len(ids))
	for _, id := range ids {
		resume, err := r.GetTailoredResume(ctx, userID, id)
		if err != nil {
			continue
		}
		resumes = append(resumes, resume)
	}

	sort.Slice(resumes, func(i, j int) bool {
		return resumes[i].CreatedAt.After(resumes[j].CreatedAt)
	})

	return resumes, nil
}

func (r *RedisStore) analysisKey(userID, analysisID string) string {
	return fmt.Sprintf("jdanalysis:%s:%s", userID, analysisID)
}

func (r *RedisStore) analysisIndexKey(userID string) string {
	return fmt.Sprintf("jdanalysis:index:%s", userID)
}

func (r *RedisStore) tailoredKey(userID, resumeID string) string {
	return fmt.Sprintf("tailored:%s:%s", userID, resumeID)
}

func (r *RedisStore) tailoredIndexKey(userID string) string {
	return fmt.Sprintf("tailored:index:%s", userID)
}

func (r *RedisStore) tailoredByAnalysisKey(userID, analysisID string) string {
	return fmt.Sprintf("tailored:byanalysis:%s:%s", userID, analysisID)
}
