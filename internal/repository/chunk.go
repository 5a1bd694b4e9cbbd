package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/lexihq/lexikb/internal/domain"
	"github.com/lexihq/lexikb/internal/service"
)

// dbtx is the subset of pgx operations the repository needs, satisfied by
// both a pool and a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const defaultTimeout = 30 * time.Second

// ChunkRepository persists and searches namespace-scoped knowledge chunks.
type ChunkRepository struct {
	db      dbtx
	timeout time.Duration
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: pool, timeout: defaultTimeout}
}

func NewChunkRepositoryWithTimeout(pool *pgxpool.Pool, timeout time.Duration) *ChunkRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ChunkRepository{db: pool, timeout: timeout}
}

// DeleteNamespace removes every chunk in the namespace. Chunks of other
// namespaces are never touched.
func (r *ChunkRepository) DeleteNamespace(ctx context.Context, namespace string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM knowledge_chunks WHERE namespace = $1`, namespace)
	return err
}

// InsertChunks stores one embedded batch. Category is denormalized out of the
// metadata for filter performance.
func (r *ChunkRepository) InsertChunks(ctx context.Context, chunks []domain.KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	for _, c := range chunks {
		metadata, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for position %d: %w", c.Position, err)
		}

		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		_, err = r.db.Exec(ctx,
			`INSERT INTO knowledge_chunks
				(id, namespace, category, position, content, embedding, metadata, created_at)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7, $8)`,
			id,
			c.Namespace,
			c.Metadata.Category,
			c.Position,
			c.Content,
			pgvector.NewVector(c.Embedding),
			metadata,
			createdAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// CountNamespace reports how many chunks a namespace currently holds.
func (r *ChunkRepository) CountNamespace(ctx context.Context, namespace string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM knowledge_chunks WHERE namespace = $1`, namespace,
	).Scan(&count)
	return count, err
}

// SearchChunks returns candidates above the score floor, ordered by score
// descending with position ascending as the deterministic tie-break.
// Similarity is 1 / (1 + cosine_distance), which maps into (0, 1].
func (r *ChunkRepository) SearchChunks(ctx context.Context, embedding []float32, filter service.ChunkFilter) ([]domain.ScoredChunk, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	vec := pgvector.NewVector(embedding)

	query := `
		SELECT id, content, metadata, position,
		       1.0 / (1.0 + (embedding <=> $1)) AS score
		FROM knowledge_chunks
		WHERE namespace = $2`
	args := []any{vec, filter.Namespace}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Audience != "" {
		args = append(args, filter.Audience)
		query += fmt.Sprintf(" AND metadata->>'audience' = $%d", len(args))
	}

	args = append(args, filter.MinScore)
	query += fmt.Sprintf(" AND 1.0 / (1.0 + (embedding <=> $1)) >= $%d", len(args))
	query += " ORDER BY score DESC, position ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.ScoredChunk, 0)
	for rows.Next() {
		var chunk domain.ScoredChunk
		var metadata []byte
		if err := rows.Scan(&chunk.ID, &chunk.Content, &metadata, &chunk.Position, &chunk.Score); err != nil {
			return nil, err
		}

		var meta domain.ChunkMetadata
		if err := json.Unmarshal(metadata, &meta); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata for chunk %s: %w", chunk.ID, err)
		}
		chunk.Source = domain.ChunkSource{
			Title:    meta.Title,
			Category: meta.Category,
			Slug:     meta.Slug,
			Audience: meta.Audience,
		}

		results = append(results, chunk)
	}

	return results, rows.Err()
}
