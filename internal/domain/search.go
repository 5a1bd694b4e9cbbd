package domain

// Read-side defaults. The reference contract leaves topK and minScore
// optional with no observable values; these are the documented choices
// (see DESIGN.md) rather than inherited behavior.
const (
	DefaultTopK     = 6
	DefaultMinScore = 0.5
)

// SearchQuery is the read-side input contract. Category and Audience are
// optional filters; TopK and MinScore fall back to the defaults above when
// left at their zero values.
type SearchQuery struct {
	Query     string
	Namespace string
	Category  string
	Audience  string
	TopK      int
	MinScore  float32
}

// ChunkSource attributes a scored chunk back to its article.
type ChunkSource struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Slug     string `json:"slug"`
	Audience string `json:"audience,omitempty"`
}

// ScoredChunk is constructed fresh per query and never persisted.
type ScoredChunk struct {
	ID       string      `json:"id"`
	Content  string      `json:"content"`
	Score    float32     `json:"score"`
	Position int         `json:"-"`
	Source   ChunkSource `json:"source"`
}

// SearchOutput carries the ranked chunks plus pre-truncation result count and
// elapsed search time in milliseconds.
type SearchOutput struct {
	Chunks       []ScoredChunk `json:"chunks"`
	TotalResults int           `json:"totalResults"`
	SearchTime   int64         `json:"searchTime"`
}
