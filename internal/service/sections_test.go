package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSections_NoHeadings(t *testing.T) {
	sections := SplitSections("Just a flat article with no headings at all.")

	require.Len(t, sections, 1)
	assert.Equal(t, "", sections[0].Heading)
	assert.Equal(t, "Just a flat article with no headings at all.", sections[0].Body)
}

func TestSplitSections_PreambleAndHeadings(t *testing.T) {
	text := "Some intro text.\n\n## Setup\n\nInstall the tool.\n\n## Usage\n\nRun the tool."

	sections := SplitSections(text)

	require.Len(t, sections, 3)
	assert.Equal(t, "", sections[0].Heading)
	assert.Equal(t, "Some intro text.", sections[0].Body)
	assert.Equal(t, "Setup", sections[1].Heading)
	assert.Equal(t, "Install the tool.", sections[1].Body)
	assert.Equal(t, "Usage", sections[2].Heading)
	assert.Equal(t, "Run the tool.", sections[2].Body)
}

func TestSplitSections_HeadingAtStart(t *testing.T) {
	text := "## Policy\n\nRefunds take 5-7 days."

	sections := SplitSections(text)

	require.Len(t, sections, 1)
	assert.Equal(t, "Policy", sections[0].Heading)
	assert.Equal(t, "Refunds take 5-7 days.", sections[0].Body)
}

func TestSplitSections_MarkerMidLineIgnored(t *testing.T) {
	text := "This line mentions ## something inline.\n\n## Real Heading\n\nBody."

	sections := SplitSections(text)

	require.Len(t, sections, 2)
	assert.Equal(t, "", sections[0].Heading)
	assert.Contains(t, sections[0].Body, "mentions ## something")
	assert.Equal(t, "Real Heading", sections[1].Heading)
}

func TestSplitSections_HeadingWithoutBody(t *testing.T) {
	text := "## Orphan Heading"

	sections := SplitSections(text)

	require.Len(t, sections, 1)
	assert.Equal(t, "Orphan Heading", sections[0].Heading)
	assert.Equal(t, "", sections[0].Body)
}

func TestSplitSections_Empty(t *testing.T) {
	assert.Nil(t, SplitSections(""))
	assert.Nil(t, SplitSections("  \n "))
}
