package domain

import "fmt"

// Article is an immutable source record supplied by the content source.
// The pipeline never mutates it; chunks are derived from scratch each run.
type Article struct {
	Title       string   `json:"title" yaml:"title"`
	Slug        string   `json:"slug" yaml:"slug"`
	Category    string   `json:"category" yaml:"category"`
	Audience    string   `json:"audience,omitempty" yaml:"audience,omitempty"`
	Description string   `json:"description" yaml:"description"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Content     string   `json:"content" yaml:"-"`
}

// ValidateArticle validates an Article instance
func ValidateArticle(a *Article) error {
	if a == nil {
		return fmt.Errorf("article cannot be nil")
	}

	if a.Title == "" {
		return fmt.Errorf("article Title is required")
	}

	if a.Slug == "" {
		return fmt.Errorf("article Slug is required")
	}

	if a.Category == "" {
		return fmt.Errorf("article Category is required")
	}

	return nil
}
