package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clauseminer/internal/ai"
)

// commonClauseTypes is advisory guidance for the model, not a closed enum;
// unrecognized types default to "other" during parsing.
var commonClauseTypes = []string{
	"termination",
	"payment",
	"confidentiality",
	"liability",
	"indemnification",
	"governing_law",
	"dispute_resolution",
	"intellectual_property",
	"warranty",
	"force_majeure",
	"assignment",
	"severability",
	"entire_agreement",
	"amendment",
	"notices",
}

const systemPrompt = "You are a legal document analysis expert. Return only valid JSON arrays."

// CompletionClient is the completion-API collaborator. *ai.OpenAICompatibleClient
// satisfies it; tests substitute stubs.
type CompletionClient interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage, opts ai.CompleteOptions) (string, error)
}

type Options struct {
	Temperature     float64
	MaxOutputTokens int
	// ChunkDelay spaces out per-chunk requests to respect backend rate
	// limits. Skipped after the final chunk.
	ChunkDelay time.Duration
}

// Extractor issues one completion request per text (or chunk) and parses the
// response into clause records. Model-call and parse failures degrade to an
// empty result; they never abort the document.
type Extractor struct {
	client CompletionClient
	chat   ai.ChatConfig
	opts   Options
	logger *slog.Logger
}

func NewExtractor(client CompletionClient, chat ai.ChatConfig, opts Options, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		client: client,
		chat:   chat,
		opts:   opts,
		logger: logger,
	}
}

// ExtractFromText runs a single completion request over text. When isChunk is
// set, the prompt tells the model it is seeing a partial document.
func (e *Extractor) ExtractFromText(ctx context.Context, text string, isChunk bool) []Clause {
	messages := []ai.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildExtractionPrompt(text, isChunk)},
	}

	raw, err := e.client.Complete(ctx, e.chat, messages, ai.CompleteOptions{
		Temperature:     e.opts.Temperature,
		MaxOutputTokens: e.opts.MaxOutputTokens,
	})
	if err != nil {
		// Degrade to "no clauses found"; the error is recorded for operators
		// but never propagated.
		e.logger.Error("extract.complete_failed",
			"error", err,
			"is_chunk", isChunk,
			"text_len", len(text),
		)
		return nil
	}

	clauses := ParseClauses(raw)
	e.logger.Info("extract.completed",
		"is_chunk", isChunk,
		"text_len", len(text),
		"clause_count", len(clauses),
	)
	return clauses
}

// ExtractFromChunks processes chunks strictly sequentially, one request per
// chunk, with a fixed delay between requests. A failed chunk contributes an
// empty result and processing continues.
func (e *Extractor) ExtractFromChunks(ctx context.Context, chunks []string) [][]Clause {
	results := make([][]Clause, 0, len(chunks))
	for i, chunk := range chunks {
		results = append(results, e.ExtractFromText(ctx, chunk, true))

		if i < len(chunks)-1 && e.opts.ChunkDelay > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(e.opts.ChunkDelay):
			}
		}
	}
	return results
}

func buildExtractionPrompt(text string, isChunk bool) string {
	var b strings.Builder
	b.WriteString("Extract all legal clauses from the following contract text.\n")
	if isChunk {
		b.WriteString("Note: this is a chunk of a larger document. Extract only from this portion and do not assume global context.\n")
	}
	b.WriteString(`
Your job:
1. Identify each legal clause.
2. Extract the full clause text exactly.
3. Assign a clause type if identifiable.
4. Capture page numbers if present.
5. Capture approximate start/end character positions (best-effort).
6. Return ONLY a JSON array of objects.

Common clause types:
`)
	b.WriteString(strings.Join(commonClauseTypes, ", "))
	b.WriteString(`

Each clause object must contain:
- clause_id (string)
- title (string or empty)
- content (string)
- clause_type (string)
- page_number (number or null)
- start_position (number or null)
- end_position (number or null)

Example output:
[
  {
    "clause_id": "clause_001",
    "title": "Termination",
    "content": "Either party may terminate...",
    "clause_type": "termination",
    "page_number": 2,
    "start_position": 230,
    "end_position": 410
  }
]

Contract text:
`)
	b.WriteString(text)
	b.WriteString("\n\nReturn ONLY the JSON array now.")
	return b.String()
}
