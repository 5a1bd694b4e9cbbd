package service

import "strings"

const sectionMarker = "## "

// Section is a heading-delimited span of normalized article text. Heading is
// empty for text that precedes the first marker or for unsectioned articles.
type Section struct {
	Heading string
	Body    string
}

// SplitSections partitions normalized text on level-2 headings. Non-empty
// input always yields at least one section.
func SplitSections(text string) []Section {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var starts []int
	if strings.HasPrefix(text, sectionMarker) {
		starts = append(starts, 0)
	}
	for i := 0; ; {
		idx := strings.Index(text[i:], "\n"+sectionMarker)
		if idx < 0 {
			break
		}
		starts = append(starts, i+idx+1)
		i += idx + 1
	}

	if len(starts) == 0 {
		return []Section{{Body: text}}
	}

	sections := make([]Section, 0, len(starts)+1)

	// Text before the first marker becomes a heading-less section.
	if preamble := strings.TrimSpace(text[:starts[0]]); preamble != "" {
		sections = append(sections, Section{Body: preamble})
	}

	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}

		block := text[start+len(sectionMarker) : end]
		heading := block
		body := ""
		if nl := strings.Index(block, "\n"); nl >= 0 {
			heading = block[:nl]
			body = block[nl+1:]
		}

		sections = append(sections, Section{
			Heading: strings.TrimSpace(heading),
			Body:    strings.TrimSpace(body),
		})
	}

	return sections
}
