package richtext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caravanpress/studio/pkg/studiogen/richtext"
)

func TestFormatTextLineClassification(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []richtext.Block
	}{
		{
			name: "heading level 1",
			text: "# Title",
			want: []richtext.Block{{Type: richtext.BlockHeading1, Runs: []richtext.Run{{Text: "Title"}}}},
		},
		{
			name: "heading level 2",
			text: "## Section",
			want: []richtext.Block{{Type: richtext.BlockHeading2, Runs: []richtext.Run{{Text: "Section"}}}},
		},
		{
			name: "heading level 3",
			text: "### Detail",
			want: []richtext.Block{{Type: richtext.BlockHeading3, Runs: []richtext.Run{{Text: "Detail"}}}},
		},
		{
			name: "quote",
			text: "> said someone",
			want: []richtext.Block{{Type: richtext.BlockQuote, Runs: []richtext.Run{{Text: "said someone"}}}},
		},
		{
			name: "paragraph",
			text: "just a line",
			want: []richtext.Block{{Type: richtext.BlockParagraph, Runs: []richtext.Run{{Text: "just a line"}}}},
		},
		{
			name: "blank lines dropped",
			text: "first\n\n\nsecond",
			want: []richtext.Block{
				{Type: richtext.BlockParagraph, Runs: []richtext.Run{{Text: "first"}}},
				{Type: richtext.BlockParagraph, Runs: []richtext.Run{{Text: "second"}}},
			},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, richtext.FormatText(tt.text))
		})
	}
}

func TestParseRunsEmphasis(t *testing.T) {
	runs := richtext.ParseRuns("**bold** and *italic*")
	require.Len(t, runs, 3)

	assert.Equal(t, richtext.Run{Text: "bold", Marks: []richtext.Mark{richtext.MarkBold}}, runs[0])
	assert.Equal(t, richtext.Run{Text: " and "}, runs[1])
	assert.Equal(t, richtext.Run{Text: "italic", Marks: []richtext.Mark{richtext.MarkItalic}}, runs[2])
}

func TestParseRunsFirstMatchWins(t *testing.T) {
	// The italic span opens before the bold span, so it wins even though a
	// bold match exists further right.
	runs := richtext.ParseRuns("*first* then **second**")
	require.Len(t, runs, 3)
	assert.Equal(t, []richtext.Mark{richtext.MarkItalic}, runs[0].Marks)
	assert.Equal(t, " then ", runs[1].Text)
	assert.Equal(t, []richtext.Mark{richtext.MarkBold}, runs[2].Marks)
}

func TestParseRunsUnmatchedStaysPlain(t *testing.T) {
	runs := richtext.ParseRuns("no emphasis here")
	require.Len(t, runs, 1)
	assert.Empty(t, runs[0].Marks)
	assert.Equal(t, "no emphasis here", runs[0].Text)
}

func TestInsertPlaceholders(t *testing.T) {
	blocks := make([]richtext.Block, 6)
	for i := range blocks {
		blocks[i] = richtext.Paragraph("p")
	}

	out := richtext.InsertPlaceholders(blocks, 2)
	require.Len(t, out, 8)

	// Offsets 2 and 4 relative to the original sequence; in the final
	// sequence the second marker sits after the first one's shift.
	assert.Equal(t, richtext.BlockImagePlaceholder, out[2].Type)
	assert.Equal(t, 1, out[2].Placeholder)
	assert.Equal(t, richtext.BlockImagePlaceholder, out[5].Type)
	assert.Equal(t, 2, out[5].Placeholder)
}

func TestInsertPlaceholdersShortSequenceNoOp(t *testing.T) {
	blocks := []richtext.Block{richtext.Paragraph("a"), richtext.Paragraph("b")}
	out := richtext.InsertPlaceholders(blocks, 2)
	assert.Equal(t, blocks, out)
}

func TestInsertPlaceholdersZeroCountNoOp(t *testing.T) {
	blocks := []richtext.Block{richtext.Paragraph("a"), richtext.Paragraph("b"), richtext.Paragraph("c")}
	assert.Equal(t, blocks, richtext.InsertPlaceholders(blocks, 0))
}
