// Package content implements the content sources that supply articles to the
// ingestion pipeline: a local directory of MDX files or an S3 prefix.
package content

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lexihq/lexikb/internal/domain"
)

const frontmatterDelimiter = "---"

// parseArticle decodes an MDX document with YAML frontmatter. The slug
// defaults to the file name when the frontmatter omits one.
func parseArticle(name string, data []byte) (domain.Article, error) {
	var article domain.Article

	text := string(data)
	rest, ok := strings.CutPrefix(text, frontmatterDelimiter+"\n")
	if !ok {
		return article, fmt.Errorf("%s: missing frontmatter", name)
	}

	frontmatter, body, ok := strings.Cut(rest, "\n"+frontmatterDelimiter)
	if !ok {
		return article, fmt.Errorf("%s: unterminated frontmatter", name)
	}

	if err := yaml.Unmarshal([]byte(frontmatter), &article); err != nil {
		return article, fmt.Errorf("%s: invalid frontmatter: %w", name, err)
	}

	if article.Slug == "" {
		base := filepath.Base(name)
		article.Slug = strings.TrimSuffix(base, filepath.Ext(base))
	}
	article.Content = strings.TrimSpace(strings.TrimPrefix(body, "\n"))

	if err := domain.ValidateArticle(&article); err != nil {
		return article, fmt.Errorf("%s: %w", name, err)
	}

	return article, nil
}

func isArticleFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".mdx":
		return true
	}
	return false
}
