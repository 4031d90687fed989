package textproc

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkExactBudgetSingleParagraph(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", 1200)
	chunks := Chunk("  "+text+"\n", 1200)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestChunkHardSplitsOversizedParagraph(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("abcdefghij", 500)
	chunks := Chunk(text, 1200)

	require.Len(t, chunks, 5)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 1200)
		assert.NotEmpty(t, c)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunkPacksParagraphsInOrder(t *testing.T) {
	t.Parallel()

	paras := []string{
		strings.Repeat("one ", 20),
		strings.Repeat("two ", 20),
		strings.Repeat("three ", 20),
		strings.Repeat("four ", 30),
	}
	text := strings.Join(paras, "\n\n   \n\n")
	chunks := Chunk(text, 200)

	var rebuilt []string
	for _, c := range chunks {
		assert.NotEmpty(t, c)
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 200)
		rebuilt = append(rebuilt, Paragraphs(c)...)
	}

	want := make([]string, 0, len(paras))
	for _, p := range paras {
		want = append(want, strings.TrimSpace(p))
	}
	assert.Equal(t, want, rebuilt)
}

func TestChunkFlushesBeforeOversizedParagraph(t *testing.T) {
	t.Parallel()

	text := "intro\n\n" + strings.Repeat("x", 25) + "\n\ntail"
	chunks := Chunk(text, 10)

	assert.Equal(t, []string{"intro", "xxxxxxxxxx", "xxxxxxxxxx", "xxxxx", "tail"}, chunks)
}

func TestChunkEmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Chunk(" \n\n \n", 100))
}

func TestChunkDefaultBudget(t *testing.T) {
	t.Parallel()

	chunks := Chunk(strings.Repeat("z", DefaultChunkSize+1), 0)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[1], 1)
}
