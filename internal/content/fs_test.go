package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const refundArticle = `---
title: Refund Policy
category: billing
audience: customers
description: How refunds are processed
keywords:
  - refunds
  - billing
---

## Policy

Refunds take 5-7 days.
`

const shippingArticle = `---
title: Shipping
slug: shipping-info
category: logistics
description: Delivery timelines
---

## Timelines

Standard shipping takes 3 business days.
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParseArticle(t *testing.T) {
	article, err := parseArticle("refund-policy.mdx", []byte(refundArticle))

	require.NoError(t, err)
	assert.Equal(t, "Refund Policy", article.Title)
	// Slug falls back to the file name when frontmatter omits it.
	assert.Equal(t, "refund-policy", article.Slug)
	assert.Equal(t, "billing", article.Category)
	assert.Equal(t, "customers", article.Audience)
	assert.Equal(t, []string{"refunds", "billing"}, article.Keywords)
	assert.Equal(t, "## Policy\n\nRefunds take 5-7 days.", article.Content)
}

func TestParseArticle_ExplicitSlugWins(t *testing.T) {
	article, err := parseArticle("anything.md", []byte(shippingArticle))

	require.NoError(t, err)
	assert.Equal(t, "shipping-info", article.Slug)
}

func TestParseArticle_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing frontmatter", "## Just a body\n\nNo frontmatter here."},
		{"unterminated frontmatter", "---\ntitle: Oops\n\nbody"},
		{"invalid yaml", "---\ntitle: [unclosed\n---\n\nbody"},
		{"missing required fields", "---\ntitle: Only a title\n---\n\nbody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArticle("bad.mdx", []byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestFilesystem_LoadArticles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b-shipping.md", shippingArticle)
	writeFile(t, dir, "a-refunds.mdx", refundArticle)
	writeFile(t, dir, "notes.txt", "not an article")
	writeFile(t, dir, "broken.mdx", "no frontmatter at all")

	source := NewFilesystem(dir)
	articles, err := source.LoadArticles(context.Background())

	require.NoError(t, err)
	// Lexical order; non-article and malformed files skipped.
	require.Len(t, articles, 2)
	assert.Equal(t, "a-refunds", articles[0].Slug)
	assert.Equal(t, "shipping-info", articles[1].Slug)
}

func TestFilesystem_LoadArticles_MissingDir(t *testing.T) {
	source := NewFilesystem(filepath.Join(t.TempDir(), "nope"))

	_, err := source.LoadArticles(context.Background())

	assert.Error(t, err)
}

func TestFilesystem_LoadArticles_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.mdx", refundArticle)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := NewFilesystem(dir)
	_, err := source.LoadArticles(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
