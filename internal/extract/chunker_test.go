package extract

import (
	"fmt"
	"strings"
	"testing"
)

func TestSplitChunksSmallTextPassthrough(t *testing.T) {
	text := "Short contract.\n\nOne more paragraph."
	chunks := SplitChunks(text, 1000)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Fatalf("chunk must be the original text unchanged, got %q", chunks[0])
	}
}

func TestSplitChunksParagraphBoundaries(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 20; i++ {
		paragraphs = append(paragraphs, fmt.Sprintf("Paragraph %02d: %s", i, strings.Repeat("x", 80)))
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := SplitChunks(text, 300)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	var total int
	for i, c := range chunks {
		if c == "" {
			t.Fatalf("chunk %d is empty", i)
		}
		if len(c) > 300 {
			t.Fatalf("chunk %d exceeds budget: %d chars", i, len(c))
		}
		total += len(c)
	}
	// Boundary whitespace trimming may lose separators but never content.
	if total < len(text)*9/10 {
		t.Fatalf("chunks recover only %d of %d chars", total, len(text))
	}
	if !strings.HasPrefix(chunks[0], "Paragraph 00") {
		t.Fatalf("first chunk must start with first paragraph, got %q", chunks[0][:20])
	}
}

func TestSplitChunksOversizedParagraphKeptWhole(t *testing.T) {
	huge := strings.Repeat("a", 500)
	text := "small paragraph\n\n" + huge + "\n\nanother small one"

	chunks := SplitChunks(text, 100)
	var found bool
	for _, c := range chunks {
		if c == huge {
			found = true
		}
	}
	if !found {
		t.Fatalf("oversized paragraph must survive as its own chunk, got %d chunks", len(chunks))
	}
}

func TestSplitChunksNoParagraphLost(t *testing.T) {
	paragraphs := []string{"alpha one", "beta two", "gamma three", "delta four"}
	text := strings.Join(paragraphs, "\n\n")

	chunks := SplitChunks(text, 25)
	joined := strings.Join(chunks, "\n\n")
	for _, p := range paragraphs {
		if !strings.Contains(joined, p) {
			t.Fatalf("paragraph %q lost in chunking: %q", p, joined)
		}
	}
}
