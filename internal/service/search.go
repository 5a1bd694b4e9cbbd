package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lexihq/lexikb/internal/domain"
	"github.com/lexihq/lexikb/internal/telemetry"
)

// ChunkFilter restricts search candidates. Namespace is mandatory; Category
// and Audience narrow further when set. MinScore drops weak matches before
// ranking reaches the caller.
type ChunkFilter struct {
	Namespace string
	Category  string
	Audience  string
	MinScore  float32
}

// SearchStore retrieves scored chunks ordered by score descending with
// position ascending as the deterministic tie-break.
type SearchStore interface {
	SearchChunks(ctx context.Context, embedding []float32, filter ChunkFilter) ([]domain.ScoredChunk, error)
}

// SearchService embeds a query and ranks stored chunks against it. Reads are
// stateless and safe under unlimited concurrency.
type SearchService struct {
	client EmbeddingClient
	store  SearchStore
}

// NewSearchService creates a new SearchService instance
func NewSearchService(client EmbeddingClient, store SearchStore) *SearchService {
	return &SearchService{client: client, store: store}
}

// Search embeds the query with the same provider and dimensionality used at
// ingestion, filters by namespace/category/audience, drops results below
// minScore, ranks, and truncates to topK.
func (s *SearchService) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchOutput, error) {
	if query.Query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if query.Namespace == "" {
		return nil, domain.ErrNamespaceRequired
	}

	topK := query.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	minScore := query.MinScore
	if minScore <= 0 {
		minScore = domain.DefaultMinScore
	}

	ctx, span := telemetry.StartSpan(ctx, "SearchService.Search", telemetry.SpanAttributes{
		Namespace: query.Namespace,
		Operation: "search",
	})
	defer span.End()

	start := time.Now()

	embedding, err := s.client.GenerateEmbedding(ctx, query.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	candidates, err := s.store.SearchChunks(ctx, embedding, ChunkFilter{
		Namespace: query.Namespace,
		Category:  query.Category,
		Audience:  query.Audience,
		MinScore:  minScore,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	total := len(candidates)
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return &domain.SearchOutput{
		Chunks:       candidates,
		TotalResults: total,
		SearchTime:   time.Since(start).Milliseconds(),
	}, nil
}
