package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lexihq/lexikb/internal/config"
	"github.com/lexihq/lexikb/internal/repository"
	"github.com/lexihq/lexikb/internal/service"
	"github.com/spf13/cobra"
)

func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Rebuild a namespace from the content source",
		Long:  "Load articles from the configured content source, chunk and embed them, and replace the namespace in the store",
		RunE:  runSeed,
	}

	cmd.Flags().StringP("namespace", "n", "", "Namespace to seed (defaults to the configured namespace)")
	cmd.Flags().String("dir", "", "Seed from a local directory instead of the configured source")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.ContentDir = dir
	}

	namespace, _ := cmd.Flags().GetString("namespace")
	if namespace == "" {
		namespace = cfg.Namespace
	}
	outputFormat, _ := cmd.Flags().GetString("output")

	source, err := buildContentSource(ctx, cfg)
	if err != nil {
		return err
	}
	if source == nil {
		return fmt.Errorf("no content source configured: set LEXIKB_CONTENT_DIR or the S3 variables")
	}

	embeddingClient, err := buildEmbeddingClient(cfg)
	if err != nil {
		return err
	}

	pool, err := getDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	chunkRepo := repository.NewChunkRepositoryWithTimeout(pool, cfg.StoreTimeout)
	seedSvc, err := service.NewSeedService(embeddingClient, chunkRepo)
	if err != nil {
		return fmt.Errorf("failed to create seed service: %w", err)
	}

	result, err := seedSvc.SeedFromSource(ctx, namespace, source)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	if outputFormat == "json" {
		jsonBytes, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("Seeded namespace %q: %d articles, %d chunks\n", namespace, result.ArticlesProcessed, result.ChunksCreated)
		for _, e := range result.Errors {
			fmt.Printf("  warning: %s\n", e)
		}
	}

	return nil
}
