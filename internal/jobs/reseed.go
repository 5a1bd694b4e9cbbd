package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lexihq/lexikb/internal/domain"
	"github.com/lexihq/lexikb/internal/service"
)

// Seeder triggers an ingestion run for one namespace.
type Seeder interface {
	SeedFromSource(ctx context.Context, namespace string, source service.ContentSource) (*domain.SeedResult, error)
}

// ReseedProcessor periodically rebuilds a namespace's corpus from its content
// source. Runs for a namespace are serialized by the seeder itself; when a
// manually triggered run is still in flight this processor simply skips the
// tick.
type ReseedProcessor struct {
	seeder    Seeder
	source    service.ContentSource
	namespace string
}

// NewReseedProcessor creates a new ReseedProcessor instance
func NewReseedProcessor(seeder Seeder, source service.ContentSource, namespace string) *ReseedProcessor {
	return &ReseedProcessor{
		seeder:    seeder,
		source:    source,
		namespace: namespace,
	}
}

// ProcessJobs implements the JobProcessor interface
func (p *ReseedProcessor) ProcessJobs(ctx context.Context) error {
	result, err := p.seeder.SeedFromSource(ctx, p.namespace, p.source)
	if err != nil {
		if errors.Is(err, domain.ErrSeedInProgress) {
			log.Printf("Reseed of %s skipped: run already in progress", p.namespace)
			return nil
		}
		return fmt.Errorf("failed to reseed namespace %s: %w", p.namespace, err)
	}

	log.Printf("Reseed of %s complete: %d articles, %d chunks, %d errors",
		p.namespace, result.ArticlesProcessed, result.ChunksCreated, len(result.Errors))
	for _, msg := range result.Errors {
		log.Printf("Reseed error: %s", msg)
	}

	return nil
}
