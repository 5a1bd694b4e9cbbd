//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexihq/lexikb/internal/api/handlers"
	"github.com/lexihq/lexikb/internal/domain"
	"github.com/lexihq/lexikb/internal/repository"
	"github.com/lexihq/lexikb/internal/server"
	"github.com/lexihq/lexikb/internal/service"
	"github.com/lexihq/lexikb/internal/testutil"
)

const testAPIToken = "lexi_e2e_token"

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T          *testing.T
	Ctx        context.Context
	PostgresC  *testutil.PostgresContainer
	Pool       *pgxpool.Pool
	Server     *httptest.Server
	HTTPClient *http.Client
	ChunkRepo  *repository.ChunkRepository
}

// hashEmbedder produces deterministic unit vectors from text content so the
// full pipeline can run without a live embedding provider. Similar prefixes
// do not imply similar vectors; tests assert on exact-text round trips.
type hashEmbedder struct{}

func (hashEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, domain.EmbeddingDimensions)
	var norm float64
	for i := range vec {
		seed := binary.BigEndian.Uint32(sum[(i*4)%28 : (i*4)%28+4])
		v := float32(int32(seed+uint32(i))) / float32(math.MaxInt32)
		vec[i] = v
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

func (h hashEmbedder) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return vectors, err
		}
		vec, err := h.GenerateEmbedding(ctx, text)
		if err != nil {
			continue
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// SetupE2EEnv creates a full E2E environment: a pgvector container, migrated
// schema, and an in-process HTTP server backed by the deterministic embedder.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	chunkRepo := repository.NewChunkRepository(pool)
	embedder := hashEmbedder{}

	seedSvc, err := service.NewSeedService(embedder, chunkRepo)
	if err != nil {
		t.Fatalf("failed to create seed service: %v", err)
	}
	searchSvc := service.NewSearchService(embedder, chunkRepo)

	router := server.NewRouter(server.RouterConfig{
		KnowledgeHandler: handlers.NewKnowledgeHandler(searchSvc, seedSvc, nil, "lexi/platform"),
		APIToken:         testAPIToken,
	})

	srv := httptest.NewServer(router)

	return &E2ETestEnv{
		T:          t,
		Ctx:        ctx,
		PostgresC:  pgC,
		Pool:       pool,
		Server:     srv,
		HTTPClient: srv.Client(),
		ChunkRepo:  chunkRepo,
	}
}

// Cleanup releases all environment resources
func (env *E2ETestEnv) Cleanup() {
	env.Server.Close()
	env.Pool.Close()
	if err := env.PostgresC.Terminate(env.Ctx); err != nil {
		env.T.Logf("failed to terminate postgres container: %v", err)
	}
}

// APIResponse mirrors the server's response envelope
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// Post sends an authenticated JSON POST request and decodes the envelope.
// Pass an empty token to send an unauthenticated request.
func (env *E2ETestEnv) Post(path string, body interface{}, token string) (*APIResponse, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, env.Server.URL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var envelope APIResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, resp.StatusCode, fmt.Errorf("failed to decode response %q: %w", raw, err)
		}
	}
	return &envelope, resp.StatusCode, nil
}
