package openai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lexihq/lexikb/internal/metrics"
)

const (
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
	// DefaultEmbeddingDimensions is the declared output dimensionality requested
	// from the provider; it must match the vector column width in the store.
	DefaultEmbeddingDimensions = 768
	// BatchSize is the number of chunks embedded per batch during ingestion.
	BatchSize = 20
	// MaxInputChars is the provider safety limit; longer inputs are truncated.
	MaxInputChars = 8000
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when an embedding has unexpected dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
	// ErrNoAPIKey is returned when the OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
)

// EmbeddingAPI defines the interface for embedding generation
type EmbeddingAPI interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Client wraps the OpenAI API client with batching and per-item failure
// isolation for the ingestion pipeline.
type Client struct {
	api        EmbeddingAPI
	dimensions int
	timeout    time.Duration
}

type OpenAIAdapter struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

func NewOpenAIAdapter(apiKey, baseURL string, model openai.EmbeddingModel, dimensions int) *OpenAIAdapter {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return &OpenAIAdapter{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      model,
		dimensions: dimensions,
	}
}

// CreateEmbedding calls the OpenAI API to create one embedding with the
// declared output dimensionality.
func (a *OpenAIAdapter) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      a.model,
		Dimensions: a.dimensions,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

type Config struct {
	APIKey              string
	BaseURL             string
	EmbeddingModel      openai.EmbeddingModel
	EmbeddingDimensions int
	Timeout             time.Duration
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		api:        NewOpenAIAdapter(cfg.APIKey, cfg.BaseURL, cfg.EmbeddingModel, dimensions),
		dimensions: dimensions,
		timeout:    timeout,
	}
}

// NewClientFromEnv creates a new OpenAI client using the OPENAI_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// GenerateEmbedding generates an embedding for the given text. Used on the
// query path; ingestion goes through GenerateBatch.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	embedding, err := c.api.CreateEmbedding(ctx, truncate(text, MaxInputChars))
	metrics.ObserveEmbedding(err == nil, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(embedding) != c.dimensions {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongDimensions, c.dimensions, len(embedding))
	}

	return embedding, nil
}

// GenerateBatch embeds a batch of texts, returning one vector per input in the
// same order. A failed item yields a nil vector instead of aborting the batch;
// the caller is expected to drop nil entries before storage. The returned
// error is non-nil only for infrastructure-level failures (cancelled or
// expired context), never for individual items.
func (c *Client) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return vectors, err
		}

		embedding, err := c.GenerateEmbedding(ctx, text)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return vectors, ctxErr
			}
			log.Printf("embedding failed for batch item %d: %v", i, err)
			continue
		}
		vectors[i] = embedding
	}

	return vectors, nil
}

// truncate limits input to the provider safety limit without splitting a rune.
func truncate(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
