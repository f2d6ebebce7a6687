package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_Empty(t *testing.T) {
	assert.Empty(t, ChunkText("", 800))
	assert.Empty(t, ChunkText("  \n\n\t  ", 800))
}

func TestChunkText_SmallTextSingleChunk(t *testing.T) {
	got := ChunkText("A short paragraph.\n\nAnother short one.", 800)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "A short paragraph.")
	assert.Contains(t, got[0], "Another short one.")
}

func TestChunkText_SplitsOnParagraphBoundaries(t *testing.T) {
	p1 := strings.Repeat("alpha ", 50)
	p2 := strings.Repeat("bravo ", 50)
	p3 := strings.Repeat("charlie ", 50)
	// budget of 100 tokens = 400 chars holds one paragraph (~300 chars) but
	// not two
	got := ChunkText(p1+"\n\n"+p2+"\n\n"+p3, 100)
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "alpha")
	assert.Contains(t, got[1], "bravo")
	assert.Contains(t, got[2], "charlie")
}

func TestChunkText_OversizedParagraphIsSplit(t *testing.T) {
	sentence := "The rule against perpetuities voids certain future interests. "
	para := strings.Repeat(sentence, 60) // ~3800 chars, no blank lines
	got := ChunkText(para, 200)          // 800-char budget

	require.Greater(t, len(got), 1)
	for _, c := range got {
		assert.LessOrEqual(t, len(c), 200*4)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
	// sentence-boundary preference: chunks should end with a period
	for _, c := range got[:len(got)-1] {
		assert.True(t, strings.HasSuffix(c, "."), "chunk should end at a sentence: %q", c[len(c)-20:])
	}
}

func TestChunkText_NoContentLost(t *testing.T) {
	text := strings.Repeat("Consideration requires a bargained-for exchange. ", 40)
	got := ChunkText(text, 100)

	joined := strings.Join(got, " ")
	assert.Equal(t,
		strings.Count(text, "bargained-for"),
		strings.Count(joined, "bargained-for"))
}
