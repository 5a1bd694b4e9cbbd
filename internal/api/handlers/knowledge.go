package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lexihq/lexikb/internal/api"
	"github.com/lexihq/lexikb/internal/domain"
	"github.com/lexihq/lexikb/internal/service"
)

// SearchService answers ranked-chunk queries.
type SearchService interface {
	Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchOutput, error)
}

// SeedService rebuilds namespace corpora.
type SeedService interface {
	Seed(ctx context.Context, namespace string, articles []domain.Article) (*domain.SeedResult, error)
	SeedFromSource(ctx context.Context, namespace string, source service.ContentSource) (*domain.SeedResult, error)
}

// KnowledgeHandler exposes the pipeline over HTTP: search on the read side,
// seed on the administrative side.
type KnowledgeHandler struct {
	search           SearchService
	seeder           SeedService
	source           service.ContentSource
	defaultNamespace string
}

// NewKnowledgeHandler creates a new KnowledgeHandler instance. The source may
// be nil when no content source is configured; seed requests must then carry
// inline articles.
func NewKnowledgeHandler(search SearchService, seeder SeedService, source service.ContentSource, defaultNamespace string) *KnowledgeHandler {
	return &KnowledgeHandler{
		search:           search,
		seeder:           seeder,
		source:           source,
		defaultNamespace: defaultNamespace,
	}
}

type SearchRequest struct {
	Query     string  `json:"query"`
	Namespace string  `json:"namespace,omitempty"`
	Category  string  `json:"category,omitempty"`
	Audience  string  `json:"audience,omitempty"`
	TopK      int     `json:"topK,omitempty"`
	MinScore  float32 `json:"minScore,omitempty"`
}

// Search handles POST /search
func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	namespace := req.Namespace
	if namespace == "" {
		namespace = h.defaultNamespace
	}

	output, err := h.search.Search(r.Context(), domain.SearchQuery{
		Query:     req.Query,
		Namespace: namespace,
		Category:  req.Category,
		Audience:  req.Audience,
		TopK:      req.TopK,
		MinScore:  req.MinScore,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, output)
}

type SeedRequest struct {
	Namespace string           `json:"namespace,omitempty"`
	Articles  []domain.Article `json:"articles,omitempty"`
}

// Seed handles POST /seed. Inline articles take precedence over the
// configured content source.
func (h *KnowledgeHandler) Seed(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	namespace := req.Namespace
	if namespace == "" {
		namespace = h.defaultNamespace
	}

	var result *domain.SeedResult
	var err error
	switch {
	case len(req.Articles) > 0:
		result, err = h.seeder.Seed(r.Context(), namespace, req.Articles)
	case h.source != nil:
		result, err = h.seeder.SeedFromSource(r.Context(), namespace, h.source)
	default:
		api.Error(w, http.StatusBadRequest, "no articles provided and no content source configured")
		return
	}
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}
