package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lexihq/lexikb/internal/config"
	"github.com/lexihq/lexikb/internal/domain"
	"github.com/lexihq/lexikb/internal/repository"
	"github.com/lexihq/lexikb/internal/service"
	"github.com/spf13/cobra"
)

func SearchCmd() *cobra.Command {
	var (
		namespace string
		category  string
		audience  string
		topK      int
		minScore  float32
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the knowledge store",
		Long:  "Embed the query and return the best-matching chunks from the namespace",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runSearch(strings.Join(args, " "), namespace, category, audience, topK, minScore, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Namespace to search (defaults to the configured namespace)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by article category")
	cmd.Flags().StringVar(&audience, "audience", "", "Filter by article audience")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Maximum number of results")
	cmd.Flags().Float32Var(&minScore, "min-score", 0, "Minimum similarity score")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runSearch(query, namespace, category, audience string, topK int, minScore float32, outputFormat string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if namespace == "" {
		namespace = cfg.Namespace
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
	searchSvc := service.NewSearchService(embeddingClient, chunkRepo)

	output, err := searchSvc.Search(ctx, domain.SearchQuery{
		Query:     query,
		Namespace: namespace,
		Category:  category,
		Audience:  audience,
		TopK:      topK,
		MinScore:  minScore,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if outputFormat == "json" {
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonBytes))
		return nil
	}

	if len(output.Chunks) == 0 {
		fmt.Println("No results found")
		return nil
	}
	fmt.Printf("Found %d result(s) in %dms:\n\n", output.TotalResults, output.SearchTime)
	for i, chunk := range output.Chunks {
		fmt.Printf("%d. [%.3f] %s (%s)\n", i+1, chunk.Score, chunk.Source.Title, chunk.Source.Slug)
		fmt.Printf("   %s\n\n", chunk.Content)
	}

	return nil
}
