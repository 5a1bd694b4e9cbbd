package service

import (
	"regexp"
	"strings"
)

// Article bodies arrive as MDX. Normalization strips everything that is not
// prose before sectioning: import declarations, embed blocks that carry no
// retrievable text, and component tags around text that should survive.
// Unmatched or unrecognized tags are left in place; normalization never fails.

var embedTags = []string{"Video", "YouTube", "CodeBlock", "Iframe", "Embed"}

var (
	importLineRe = regexp.MustCompile(`(?m)^import\s+.*$`)

	// Embed blocks are dropped wholesale, wrapped text included. One pattern
	// per tag so a block only ends at its own closing tag.
	embedBlockRes    = compileEmbedBlockRes()
	embedSelfCloseRe = regexp.MustCompile(`<(?:` + strings.Join(embedTags, "|") + `)\b[^>]*/>`)

	// Remaining component or inline tags are unwrapped, keeping inner text.
	inlineTagRe = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9]*\b[^<>]*>`)

	excessNewlinesRe = regexp.MustCompile(`\n{3,}`)
)

func compileEmbedBlockRes() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(embedTags))
	for _, tag := range embedTags {
		res = append(res, regexp.MustCompile(`(?s)<`+tag+`\b[^>]*>.*?</`+tag+`>`))
	}
	return res
}

// NormalizeContent reduces raw article markup to plain text.
func NormalizeContent(raw string) string {
	text := importLineRe.ReplaceAllString(raw, "")
	for _, re := range embedBlockRes {
		text = re.ReplaceAllString(text, "")
	}
	text = embedSelfCloseRe.ReplaceAllString(text, "")
	text = inlineTagRe.ReplaceAllString(text, "")
	text = excessNewlinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
