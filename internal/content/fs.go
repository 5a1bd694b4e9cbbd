package content

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lexihq/lexikb/internal/domain"
)

// Filesystem loads articles from a directory of .md/.mdx files.
type Filesystem struct {
	dir string
}

func NewFilesystem(dir string) *Filesystem {
	return &Filesystem{dir: dir}
}

// LoadArticles reads every article file in the directory in lexical order.
// A malformed file is logged and skipped so one bad article cannot block a
// whole ingestion run.
func (f *Filesystem) LoadArticles(ctx context.Context) ([]domain.Article, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory: %w", err)
	}

	articles := make([]domain.Article, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !isArticleFile(entry.Name()) {
			continue
		}

		path := filepath.Join(f.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("content: skipping %s: %v", entry.Name(), err)
			continue
		}

		article, err := parseArticle(entry.Name(), data)
		if err != nil {
			log.Printf("content: skipping %v", err)
			continue
		}

		articles = append(articles, article)
	}

	return articles, nil
}
