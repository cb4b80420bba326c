package extract

import "strings"

const paragraphSeparator = "\n\n"

// SplitChunks splits text into chunks of at most maxChunkSize characters,
// greedily packing whole paragraphs. Text that already fits is returned as a
// single chunk, unchanged. A single paragraph longer than maxChunkSize is NOT
// split further: it becomes an oversized chunk on its own, trading degraded
// model quality for never cutting a paragraph mid-sentence.
func SplitChunks(text string, maxChunkSize int) []string {
	if len(text) <= maxChunkSize {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	for _, paragraph := range strings.Split(text, paragraphSeparator) {
		if current.Len()+len(paragraph)+len(paragraphSeparator) <= maxChunkSize {
			current.WriteString(paragraph)
			current.WriteString(paragraphSeparator)
			continue
		}
		if flushed := strings.TrimSpace(current.String()); flushed != "" {
			chunks = append(chunks, flushed)
		}
		current.Reset()
		current.WriteString(paragraph)
		current.WriteString(paragraphSeparator)
	}

	if flushed := strings.TrimSpace(current.String()); flushed != "" {
		chunks = append(chunks, flushed)
	}

	return chunks
}
