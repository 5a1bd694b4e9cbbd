package service

import (
	"strings"

	"github.com/lexihq/lexikb/internal/domain"
)

// ChunkConfig controls segmentation of section bodies into embeddable chunks.
type ChunkConfig struct {
	// ChunkSize is the window size in characters.
	ChunkSize int
	// Overlap is the number of trailing characters repeated at the start of
	// the next chunk. Must stay below ChunkSize or the window never advances.
	Overlap int
	// MinChars is the noise floor: windowed chunks shorter than this are
	// discarded. A section's sole chunk and the overview chunk are exempt.
	MinChars int
}

// DefaultChunkConfig provides the pipeline defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkSize: 1000,
		Overlap:   100,
		MinChars:  50,
	}
}

func (c ChunkConfig) validate() error {
	if c.ChunkSize <= 0 || c.Overlap < 0 || c.Overlap >= c.ChunkSize {
		return domain.ErrInvalidChunkConfig
	}
	return nil
}

// chunkSection splits one section body into bounded, overlapping chunks.
// A body within the window is emitted verbatim as a single chunk. Larger
// bodies are cut at a paragraph break when one falls in the last half of the
// window, then at a sentence break under the same condition, then hard.
func chunkSection(heading, body string, cfg ChunkConfig) []string {
	clean := strings.TrimSpace(body)
	if clean == "" {
		// A bare heading carries no retrievable text.
		return nil
	}

	runes := []rune(clean)
	if len(runes) <= cfg.ChunkSize {
		return []string{withHeading(heading, clean)}
	}

	chunks := make([]string, 0, len(runes)/(cfg.ChunkSize-cfg.Overlap)+1)
	start := 0
	for start < len(runes) {
		end := start + cfg.ChunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = cutPoint(runes, start, end)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if len([]rune(piece)) >= cfg.MinChars {
			chunks = append(chunks, withHeading(heading, piece))
		}

		if end >= len(runes) {
			break
		}
		start = end - cfg.Overlap
	}

	return chunks
}

// cutPoint searches backward from the tentative end for a paragraph break,
// then a sentence break, accepting either only within the last half of the
// window so chunks never collapse below half the target size.
func cutPoint(runes []rune, start, end int) int {
	half := start + (end-start)/2

	for i := end - 1; i > half; i-- {
		if runes[i-1] == '\n' && runes[i] == '\n' {
			return i - 1
		}
	}

	for i := end - 1; i > half; i-- {
		if runes[i-1] == '.' && runes[i] == ' ' {
			return i
		}
	}

	return end
}

func withHeading(heading, piece string) string {
	if heading == "" {
		return piece
	}
	if piece == "" {
		return heading
	}
	return heading + "\n\n" + piece
}

// chunkDraft is a chunk before position assignment and embedding.
type chunkDraft struct {
	Content string
	Section string
}

// segmentArticle turns one article into its ordered chunk drafts: a synthetic
// overview chunk first, then boundary-aware chunks for each section.
func segmentArticle(article domain.Article, cfg ChunkConfig) []chunkDraft {
	drafts := []chunkDraft{{
		Content: article.Title + ": " + article.Description,
		Section: domain.SectionOverview,
	}}

	text := NormalizeContent(article.Content)
	for _, section := range SplitSections(text) {
		for _, piece := range chunkSection(section.Heading, section.Body, cfg) {
			drafts = append(drafts, chunkDraft{Content: piece, Section: section.Heading})
		}
	}

	return drafts
}
