package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lexihq/lexikb/internal/domain"
	"github.com/lexihq/lexikb/internal/metrics"
	"github.com/lexihq/lexikb/internal/telemetry"
)

// ContentSource supplies the ordered article list for an ingestion run.
type ContentSource interface {
	LoadArticles(ctx context.Context) ([]domain.Article, error)
}

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ChunkStore defines the persistence interface for namespace corpora.
// Namespace is mandatory on every call; one namespace's operations must never
// touch another's rows.
type ChunkStore interface {
	DeleteNamespace(ctx context.Context, namespace string) error
	InsertChunks(ctx context.Context, chunks []domain.KnowledgeChunk) error
}

// DefaultBatchSize is the number of chunks embedded and inserted per batch.
const DefaultBatchSize = 20

// SeedService rebuilds a namespace's chunk corpus from articles: normalize,
// split, segment, embed in batches, then replace the namespace's rows.
//
// Seeding is delete-before-insert, so readers may observe an empty namespace
// mid-run. That is an accepted tradeoff: seeding is an administrative
// operation, and a retry fully repairs the namespace.
type SeedService struct {
	client    EmbeddingClient
	store     ChunkStore
	chunkCfg  ChunkConfig
	batchSize int

	// One lock per namespace; concurrent runs on the same namespace would
	// race between delete and insert.
	locks sync.Map
}

// NewSeedService creates a SeedService with default chunking and batching.
func NewSeedService(client EmbeddingClient, store ChunkStore) (*SeedService, error) {
	return NewSeedServiceWithConfig(client, store, DefaultChunkConfig(), DefaultBatchSize)
}

// NewSeedServiceWithConfig creates a SeedService with explicit configuration.
func NewSeedServiceWithConfig(client EmbeddingClient, store ChunkStore, chunkCfg ChunkConfig, batchSize int) (*SeedService, error) {
	if err := chunkCfg.validate(); err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &SeedService{
		client:    client,
		store:     store,
		chunkCfg:  chunkCfg,
		batchSize: batchSize,
	}, nil
}

// SeedFromSource loads articles from a content source and seeds the namespace.
func (s *SeedService) SeedFromSource(ctx context.Context, namespace string, source ContentSource) (*domain.SeedResult, error) {
	articles, err := source.LoadArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load articles: %w", err)
	}
	return s.Seed(ctx, namespace, articles)
}

// Seed replaces the namespace's corpus with chunks derived from the given
// articles. Per-article and per-batch failures are recorded in the result's
// error list; only invalid input or a concurrent run on the same namespace
// returns an error.
func (s *SeedService) Seed(ctx context.Context, namespace string, articles []domain.Article) (*domain.SeedResult, error) {
	if namespace == "" {
		return nil, domain.ErrNamespaceRequired
	}

	mu := s.lockFor(namespace)
	if !mu.TryLock() {
		return nil, domain.ErrSeedInProgress
	}
	defer mu.Unlock()

	ctx, span := telemetry.StartSpan(ctx, "SeedService.Seed", telemetry.SpanAttributes{
		Namespace: namespace,
		Operation: "seed",
	})
	defer span.End()

	result := &domain.SeedResult{Errors: []string{}}
	now := time.Now().UTC()

	// Positions are assigned here, before any embedding dispatch, so stored
	// ordering is deterministic regardless of completion order.
	var chunks []domain.KnowledgeChunk
	position := 0
	for _, article := range articles {
		drafts, err := s.segmentArticle(article)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("article %q: %v", article.Slug, err))
			continue
		}

		for _, draft := range drafts {
			chunks = append(chunks, domain.KnowledgeChunk{
				Namespace: namespace,
				Position:  position,
				Content:   draft.Content,
				Metadata: domain.ChunkMetadata{
					Title:    article.Title,
					Category: article.Category,
					Slug:     article.Slug,
					Audience: article.Audience,
					Section:  draft.Section,
					Keywords: article.Keywords,
				},
				CreatedAt: now,
			})
			position++
		}
		result.ArticlesProcessed++
	}

	// Full-namespace replace. If the delete fails the old corpus is intact,
	// so surface the failure and stop before inserting anything.
	if err := s.store.DeleteNamespace(ctx, namespace); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("namespace %q: delete failed: %v", namespace, err))
		metrics.ObserveSeedRun(false, 0)
		return result, nil
	}

	for start := 0; start < len(chunks); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("namespace %q: run cancelled: %v", namespace, err))
			break
		}

		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := s.client.GenerateBatch(ctx, texts)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("namespace %q: embedding batch at position %d failed: %v", namespace, batch[0].Position, err))
			break
		}

		// Items without an embedding are dropped, not reported: a reduced
		// chunk count is the only visible effect.
		survivors := make([]domain.KnowledgeChunk, 0, len(batch))
		for i, vec := range vectors {
			if vec == nil {
				continue
			}
			c := batch[i]
			c.Embedding = vec
			survivors = append(survivors, c)
		}

		if len(survivors) == 0 {
			continue
		}

		if err := s.store.InsertChunks(ctx, survivors); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("namespace %q: insert batch at position %d failed: %v", namespace, batch[0].Position, err))
			continue
		}
		result.ChunksCreated += len(survivors)
	}

	metrics.ObserveSeedRun(len(result.Errors) == 0, result.ChunksCreated)
	return result, nil
}

// segmentArticle isolates per-article failures: a malformed article must not
// take down the rest of the run.
func (s *SeedService) segmentArticle(article domain.Article) (drafts []chunkDraft, err error) {
	defer func() {
		if r := recover(); r != nil {
			drafts = nil
			err = fmt.Errorf("segmentation panic: %v", r)
		}
	}()

	if err := domain.ValidateArticle(&article); err != nil {
		return nil, err
	}

	return segmentArticle(article, s.chunkCfg), nil
}

func (s *SeedService) lockFor(namespace string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(namespace, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
