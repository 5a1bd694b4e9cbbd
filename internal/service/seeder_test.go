package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lexihq/lexikb/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmbeddingClient mocks the embedding provider
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbeddingClient) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

// MockChunkStore mocks the persistence layer
type MockChunkStore struct {
	mock.Mock
}

func (m *MockChunkStore) DeleteNamespace(ctx context.Context, namespace string) error {
	args := m.Called(ctx, namespace)
	return args.Error(0)
}

func (m *MockChunkStore) InsertChunks(ctx context.Context, chunks []domain.KnowledgeChunk) error {
	args := m.Called(ctx, chunks)
	return args.Error(0)
}

func testVector() []float32 {
	return make([]float32, domain.EmbeddingDimensions)
}

func nVectors(n int) [][]float32 {
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = testVector()
	}
	return vectors
}

var testArticles = []domain.Article{
	{
		Title:       "Refund Policy",
		Slug:        "refund-policy",
		Category:    "billing",
		Description: "How refunds work",
		Content:     "## Policy\n\nRefunds take 5-7 days.",
	},
	{
		Title:       "Shipping",
		Slug:        "shipping",
		Category:    "logistics",
		Description: "Delivery timelines",
		Content:     "## Timelines\n\nStandard shipping takes 3 business days.",
	},
}

func TestSeedService_Seed_Success(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockChunkStore)
	svc, err := NewSeedService(mockClient, mockStore)
	require.NoError(t, err)

	mockStore.On("DeleteNamespace", mock.Anything, "lexi/platform").Return(nil)
	mockClient.On("GenerateBatch", mock.Anything, mock.Anything).Return(nVectors(4), nil)

	var inserted []domain.KnowledgeChunk
	mockStore.On("InsertChunks", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = append(inserted, args.Get(1).([]domain.KnowledgeChunk)...)
	}).Return(nil)

	result, err := svc.Seed(context.Background(), "lexi/platform", testArticles)

	require.NoError(t, err)
	assert.Equal(t, 2, result.ArticlesProcessed)
	// Overview + one section chunk per article.
	assert.Equal(t, 4, result.ChunksCreated)
	assert.Empty(t, result.Errors)

	require.Len(t, inserted, 4)
	for i, chunk := range inserted {
		assert.Equal(t, i, chunk.Position, "positions must be sequential in article order")
		assert.Equal(t, "lexi/platform", chunk.Namespace)
		assert.Len(t, chunk.Embedding, domain.EmbeddingDimensions)
	}
	assert.Equal(t, domain.SectionOverview, inserted[0].Metadata.Section)
	assert.Equal(t, "refund-policy", inserted[0].Metadata.Slug)
	assert.Equal(t, "shipping", inserted[2].Metadata.Slug)

	mockStore.AssertExpectations(t)
	mockClient.AssertExpectations(t)
}

func TestSeedService_Seed_InvalidArticleIsolated(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockChunkStore)
	svc, err := NewSeedService(mockClient, mockStore)
	require.NoError(t, err)

	articles := []domain.Article{
		{Slug: "broken", Content: "## Missing title"},
		testArticles[0],
	}

	mockStore.On("DeleteNamespace", mock.Anything, "lexi/platform").Return(nil)
	mockClient.On("GenerateBatch", mock.Anything, mock.Anything).Return(nVectors(2), nil)
	mockStore.On("InsertChunks", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Seed(context.Background(), "lexi/platform", articles)

	require.NoError(t, err)
	assert.Equal(t, 1, result.ArticlesProcessed)
	assert.Equal(t, 2, result.ChunksCreated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "broken")
}

func TestSeedService_Seed_DroppedEmbeddingsShrinkInsert(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockChunkStore)
	svc, err := NewSeedService(mockClient, mockStore)
	require.NoError(t, err)

	// 10 articles, 2 chunks each: one full batch of 20.
	articles := make([]domain.Article, 10)
	for i := range articles {
		articles[i] = domain.Article{
			Title:       fmt.Sprintf("Article %d", i),
			Slug:        fmt.Sprintf("article-%d", i),
			Category:    "docs",
			Description: "A description",
			Content:     "## Section\n\nSome body text for the section.",
		}
	}

	mockStore.On("DeleteNamespace", mock.Anything, "lexi/platform").Return(nil)
	failedBatch := nVectors(20)
	failedBatch[7] = nil // one item failed to embed
	mockClient.On("GenerateBatch", mock.Anything, mock.Anything).Return(failedBatch, nil)

	var inserted []domain.KnowledgeChunk
	mockStore.On("InsertChunks", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(1).([]domain.KnowledgeChunk)
	}).Return(nil)

	result, err := svc.Seed(context.Background(), "lexi/platform", articles)

	require.NoError(t, err)
	// The failed item is dropped silently: fewer chunks, no error entry.
	assert.Equal(t, 19, result.ChunksCreated)
	assert.Empty(t, result.Errors)
	assert.Len(t, inserted, 19)
}

func TestSeedService_Seed_DeleteFailureStopsRun(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockChunkStore)
	svc, err := NewSeedService(mockClient, mockStore)
	require.NoError(t, err)

	mockStore.On("DeleteNamespace", mock.Anything, "lexi/platform").Return(errors.New("connection refused"))

	result, err := svc.Seed(context.Background(), "lexi/platform", testArticles)

	require.NoError(t, err)
	assert.Equal(t, 0, result.ChunksCreated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "delete failed")
	mockStore.AssertNotCalled(t, "InsertChunks", mock.Anything, mock.Anything)
	mockClient.AssertNotCalled(t, "GenerateBatch", mock.Anything, mock.Anything)
}

func TestSeedService_Seed_InsertFailureContinues(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockChunkStore)
	svc, err := NewSeedServiceWithConfig(mockClient, mockStore, DefaultChunkConfig(), 2)
	require.NoError(t, err)

	// Two articles yield four chunks, i.e. two batches of two.
	mockStore.On("DeleteNamespace", mock.Anything, "lexi/platform").Return(nil)
	mockClient.On("GenerateBatch", mock.Anything, mock.Anything).Return(nVectors(2), nil)
	mockStore.On("InsertChunks", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	mockStore.On("InsertChunks", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := svc.Seed(context.Background(), "lexi/platform", testArticles)

	require.NoError(t, err)
	assert.Equal(t, 2, result.ChunksCreated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "insert batch")
}

func TestSeedService_Seed_NamespaceRequired(t *testing.T) {
	svc, err := NewSeedService(new(MockEmbeddingClient), new(MockChunkStore))
	require.NoError(t, err)

	_, err = svc.Seed(context.Background(), "", testArticles)

	assert.ErrorIs(t, err, domain.ErrNamespaceRequired)
}

func TestSeedService_Seed_ConcurrentRunRejected(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockChunkStore)
	svc, err := NewSeedService(mockClient, mockStore)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})

	mockStore.On("DeleteNamespace", mock.Anything, "lexi/platform").Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(nil)
	mockClient.On("GenerateBatch", mock.Anything, mock.Anything).Return(nVectors(4), nil)
	mockStore.On("InsertChunks", mock.Anything, mock.Anything).Return(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Seed(context.Background(), "lexi/platform", testArticles)
	}()

	<-entered
	_, err = svc.Seed(context.Background(), "lexi/platform", testArticles)
	assert.ErrorIs(t, err, domain.ErrSeedInProgress)

	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("first seed run did not finish")
	}
}

func TestSeedService_Seed_DifferentNamespacesRunConcurrently(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockChunkStore)
	svc, err := NewSeedService(mockClient, mockStore)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})

	mockStore.On("DeleteNamespace", mock.Anything, "ns/a").Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(nil)
	mockStore.On("DeleteNamespace", mock.Anything, "ns/b").Return(nil)
	mockClient.On("GenerateBatch", mock.Anything, mock.Anything).Return(nVectors(4), nil)
	mockStore.On("InsertChunks", mock.Anything, mock.Anything).Return(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Seed(context.Background(), "ns/a", testArticles)
	}()

	<-entered
	result, err := svc.Seed(context.Background(), "ns/b", testArticles)
	require.NoError(t, err)
	assert.Equal(t, 4, result.ChunksCreated)

	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("seed run on ns/a did not finish")
	}
}

func TestSeedService_Seed_CancelledContext(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockStore := new(MockChunkStore)
	svc, err := NewSeedService(mockClient, mockStore)
	require.NoError(t, err)

	mockStore.On("DeleteNamespace", mock.Anything, "lexi/platform").Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Seed(ctx, "lexi/platform", testArticles)

	require.NoError(t, err)
	assert.Equal(t, 0, result.ChunksCreated)
	require.NotEmpty(t, result.Errors)
	assert.True(t, strings.Contains(result.Errors[len(result.Errors)-1], "run cancelled"))
	mockClient.AssertNotCalled(t, "GenerateBatch", mock.Anything, mock.Anything)
}

func TestNewSeedServiceWithConfig_InvalidConfig(t *testing.T) {
	_, err := NewSeedServiceWithConfig(new(MockEmbeddingClient), new(MockChunkStore), ChunkConfig{ChunkSize: 10, Overlap: 10}, 20)

	assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)
}
