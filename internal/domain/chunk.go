package domain

import "time"

// EmbeddingDimensions is the declared output dimensionality requested from the
// embedding provider. Query and ingestion embeddings must use the same value
// or stored vectors become incomparable.
const EmbeddingDimensions = 768

// SectionOverview tags the synthetic per-article summary chunk.
const SectionOverview = "overview"

// ChunkMetadata is serialized to JSON alongside each stored chunk and feeds
// source attribution at query time.
type ChunkMetadata struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Slug     string   `json:"slug"`
	Audience string   `json:"audience,omitempty"`
	Section  string   `json:"section,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// KnowledgeChunk is a derived, ephemeral artifact of a seed run. Every chunk
// belongs to exactly one namespace; Position is a run-scoped global ordinal
// assigned before embedding dispatch so output ordering stays deterministic.
type KnowledgeChunk struct {
	ID        string
	Namespace string
	Position  int
	Content   string
	Metadata  ChunkMetadata
	Embedding []float32
	CreatedAt time.Time
}

// SeedResult summarizes a single ingestion run for one namespace.
type SeedResult struct {
	ArticlesProcessed int      `json:"articlesProcessed"`
	ChunksCreated     int      `json:"chunksCreated"`
	Errors            []string `json:"errors"`
}
