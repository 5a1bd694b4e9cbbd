package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexihq/lexikb/internal/config"
	"github.com/lexihq/lexikb/internal/content"
	"github.com/lexihq/lexikb/internal/database"
	"github.com/lexihq/lexikb/internal/openai"
	"github.com/lexihq/lexikb/internal/service"
	goopenai "github.com/sashabaranov/go-openai"
)

func getDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

func buildEmbeddingClient(cfg *config.Config) (*openai.Client, error) {
	if !cfg.HasOpenAI() {
		return nil, fmt.Errorf("embedding provider not configured: LEXIKB_OPENAI_API_KEY required")
	}
	return openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		BaseURL:             cfg.OpenAIBaseURL,
		EmbeddingModel:      goopenai.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
		Timeout:             cfg.EmbedTimeout,
	}), nil
}

// buildContentSource resolves the configured article source. A local
// directory wins over S3 when both are set; returns nil when neither is.
func buildContentSource(ctx context.Context, cfg *config.Config) (service.ContentSource, error) {
	if cfg.ContentDir != "" {
		return content.NewFilesystem(cfg.ContentDir), nil
	}
	if cfg.HasS3() {
		source, err := content.NewS3Source(ctx, content.S3SourceConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			UsePathStyle:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 content source: %w", err)
		}
		return source, nil
	}
	return nil, nil
}
