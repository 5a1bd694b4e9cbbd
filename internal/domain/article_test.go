package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateArticle_Valid(t *testing.T) {
	article := &Article{
		Title:       "Refund policy",
		Slug:        "refund-policy",
		Category:    "billing",
		Description: "How refunds work",
		Content:     "## Policy\n\nRefunds take 5-7 days.",
	}

	assert.NoError(t, ValidateArticle(article))
}

func TestValidateArticle_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		article *Article
		wantMsg string
	}{
		{"nil article", nil, "article cannot be nil"},
		{"missing title", &Article{Slug: "a", Category: "b"}, "Title is required"},
		{"missing slug", &Article{Title: "a", Category: "b"}, "Slug is required"},
		{"missing category", &Article{Title: "a", Slug: "b"}, "Category is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArticle(tt.article)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
