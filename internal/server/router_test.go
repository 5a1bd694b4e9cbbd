package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lexihq/lexikb/internal/api/handlers"
	"github.com/lexihq/lexikb/internal/domain"
	"github.com/lexihq/lexikb/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchOutput, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchOutput), args.Error(1)
}

type MockSeedService struct {
	mock.Mock
}

func (m *MockSeedService) Seed(ctx context.Context, namespace string, articles []domain.Article) (*domain.SeedResult, error) {
	args := m.Called(ctx, namespace, articles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeedResult), args.Error(1)
}

func (m *MockSeedService) SeedFromSource(ctx context.Context, namespace string, source service.ContentSource) (*domain.SeedResult, error) {
	args := m.Called(ctx, namespace, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeedResult), args.Error(1)
}

const testToken = "lexi_0123456789abcdef0123456789abcdef"

func setupRouter() (http.Handler, *MockSearchService, *MockSeedService) {
	searchSvc := new(MockSearchService)
	seedSvc := new(MockSeedService)

	cfg := RouterConfig{
		KnowledgeHandler: handlers.NewKnowledgeHandler(searchSvc, seedSvc, nil, "lexi/platform"),
		APIToken:         testToken,
	}

	router := NewRouter(cfg)
	return router, searchSvc, seedSvc
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ProtectedRoutes_RequireAuth(t *testing.T) {
	router, _, _ := setupRouter()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/search"},
		{http.MethodPost, "/seed"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_Search_WithValidAuth(t *testing.T) {
	router, searchSvc, _ := setupRouter()

	expected := &domain.SearchOutput{
		Chunks: []domain.ScoredChunk{
			{ID: "c-1", Content: "Refunds take 5-7 days.", Score: 0.92},
		},
		TotalResults: 1,
	}
	searchSvc.On("Search", mock.Anything, domain.SearchQuery{
		Query:     "refund policy",
		Namespace: "lexi/platform",
	}).Return(expected, nil)

	body, _ := json.Marshal(map[string]string{"query": "refund policy"})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	searchSvc.AssertExpectations(t)
}

func TestRouter_Seed_WithValidAuth(t *testing.T) {
	router, _, seedSvc := setupRouter()

	articles := []domain.Article{
		{Title: "Refund Policy", Slug: "refund-policy", Category: "billing", Content: "## Policy\n\nRefunds take 5-7 days."},
	}
	seedSvc.On("Seed", mock.Anything, "lexi/platform", articles).
		Return(&domain.SeedResult{ArticlesProcessed: 1, ChunksCreated: 2}, nil)

	body, _ := json.Marshal(map[string]interface{}{"articles": articles})
	req := httptest.NewRequest(http.MethodPost, "/seed", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	seedSvc.AssertExpectations(t)
}
