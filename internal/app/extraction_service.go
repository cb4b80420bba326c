package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"clauseminer/internal/config"
	"clauseminer/internal/extract"
	"clauseminer/internal/model"
	"clauseminer/internal/pkg/docparse"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrDocumentUnprocessable = errors.New("document cannot be processed")
)

// DocumentStore and ClauseStore are the persistence collaborators; the gorm
// repositories implement them, tests use in-memory fakes.
type DocumentStore interface {
	Create(doc *model.Document) error
	GetByID(id string) (*model.Document, error)
	UpdateStatus(id, status string, errorMessage *string, processingSeconds *float64) error
	List(page, pageSize int) ([]model.Document, int64, error)
}

type ClauseStore interface {
	ReplaceForDocument(documentID string, clauses []model.Clause) error
	ListByDocumentID(documentID string) ([]model.Clause, error)
	CountByDocumentIDs(documentIDs []string) (map[string]int64, error)
}

type ClauseExtractor interface {
	ExtractFromText(ctx context.Context, text string, isChunk bool) []extract.Clause
	ExtractFromChunks(ctx context.Context, chunks []string) [][]extract.Clause
}

// CachedExtraction is the payload stored for completed documents.
type CachedExtraction struct {
	Document model.Document `json:"document"`
	Clauses  []model.Clause `json:"clauses"`
}

type ResultCache interface {
	Get(ctx context.Context, documentID string) (*CachedExtraction, bool, error)
	Set(ctx context.Context, documentID string, result CachedExtraction) error
	Delete(ctx context.Context, documentID string) error
}

// ExtractionService drives the pipeline for one document: text extraction,
// length validation, chunk decision, per-chunk model extraction, reassembly,
// persistence, and the pending -> processing -> completed/failed lifecycle.
type ExtractionService struct {
	docs      DocumentStore
	clauses   ClauseStore
	extractor ClauseExtractor
	cache     ResultCache // optional
	cfg       config.ExtractionConfig

	extractText func(data []byte, filename string) (string, docparse.Metadata, error)
}

func NewExtractionService(
	docs DocumentStore,
	clauses ClauseStore,
	extractor ClauseExtractor,
	cache ResultCache,
	cfg config.ExtractionConfig,
) *ExtractionService {
	return &ExtractionService{
		docs:        docs,
		clauses:     clauses,
		extractor:   extractor,
		cache:       cache,
		cfg:         cfg,
		extractText: docparse.ExtractText,
	}
}

// ProcessResult packages the outcome of one pipeline run.
type ProcessResult struct {
	DocumentID        string            `json:"document_id"`
	Clauses           []extract.Clause  `json:"clauses"`
	TotalClauses      int               `json:"total_clauses"`
	ChunksProcessed   int               `json:"chunks_processed"`
	TextLength        int               `json:"text_length"`
	ProcessingSeconds float64           `json:"processing_time_seconds"`
	Format            docparse.Metadata `json:"format"`
}

// CreateDocument records a pending document before extraction starts.
func (s *ExtractionService) CreateDocument(filename string, fileSize int64) (*model.Document, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}
	doc := &model.Document{
		ID:       uuid.NewString(),
		Filename: filename,
		FileSize: fileSize,
		Status:   model.StatusPending,
	}
	if err := s.docs.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ProcessDocument runs the full pipeline for an already-created document.
// Text extraction errors and too-short text are hard failures: the document
// is marked failed and the error is returned to the caller. Model-call
// degradation is NOT a failure; an empty clause list still completes.
//
// The caller must not invoke this twice concurrently for one document id;
// the run owns the document's status record for its duration.
func (s *ExtractionService) ProcessDocument(ctx context.Context, documentID, filename string, data []byte) (*ProcessResult, error) {
	start := time.Now()

	if err := s.docs.UpdateStatus(documentID, model.StatusProcessing, nil, nil); err != nil {
		return nil, err
	}
	s.invalidate(ctx, documentID)

	text, meta, err := s.extractText(data, filename)
	if err != nil {
		return nil, s.fail(ctx, documentID, start, fmt.Errorf("%w: %v", ErrDocumentUnprocessable, err))
	}
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < s.cfg.MinTextLength {
		return nil, s.fail(ctx, documentID, start,
			fmt.Errorf("%w: document appears to be empty or too short (%d chars, minimum %d)", ErrDocumentUnprocessable, len(trimmed), s.cfg.MinTextLength))
	}

	chunks := extract.SplitChunks(text, s.cfg.MaxChunkSize)
	var clauses []extract.Clause
	if len(chunks) == 1 {
		// Single-pass output already has unique ids; no reassembly rewrite.
		clauses = s.extractor.ExtractFromText(ctx, text, false)
	} else {
		clauses = extract.MergeChunkResults(s.extractor.ExtractFromChunks(ctx, chunks))
	}

	rows := make([]model.Clause, len(clauses))
	for i, c := range clauses {
		rows[i] = model.Clause{
			ID:            uuid.NewString(),
			DocumentID:    documentID,
			ClauseID:      c.ClauseID,
			Title:         c.Title,
			Content:       c.Content,
			ClauseType:    c.ClauseType,
			PageNumber:    c.PageNumber,
			StartPosition: c.StartPosition,
			EndPosition:   c.EndPosition,
			OrderIndex:    i,
		}
	}
	if err := s.clauses.ReplaceForDocument(documentID, rows); err != nil {
		return nil, s.fail(ctx, documentID, start, err)
	}

	elapsed := time.Since(start).Seconds()
	if err := s.docs.UpdateStatus(documentID, model.StatusCompleted, nil, &elapsed); err != nil {
		return nil, err
	}
	s.invalidate(ctx, documentID)

	return &ProcessResult{
		DocumentID:        documentID,
		Clauses:           clauses,
		TotalClauses:      len(clauses),
		ChunksProcessed:   len(chunks),
		TextLength:        len(text),
		ProcessingSeconds: elapsed,
		Format:            meta,
	}, nil
}

// GetExtraction returns a document and its clauses, serving completed
// documents from the result cache when possible.
func (s *ExtractionService) GetExtraction(ctx context.Context, documentID string) (*model.Document, []model.Clause, error) {
	if documentID == "" {
		return nil, nil, ErrInvalidInput
	}

	if s.cache != nil {
		if cached, hit, err := s.cache.Get(ctx, documentID); err == nil && hit {
			return &cached.Document, cached.Clauses, nil
		}
	}

	doc, err := s.docs.GetByID(documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, ErrDocumentNotFound
	}

	clauses, err := s.clauses.ListByDocumentID(documentID)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil && doc.Status == model.StatusCompleted {
		_ = s.cache.Set(ctx, documentID, CachedExtraction{Document: *doc, Clauses: clauses})
	}
	return doc, clauses, nil
}

// DocumentListItem is the list-view projection of a document.
type DocumentListItem struct {
	DocumentID   string     `json:"document_id"`
	Filename     string     `json:"filename"`
	UploadedAt   time.Time  `json:"uploaded_at"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	TotalClauses int64      `json:"total_clauses"`
	Status       string     `json:"status"`
}

type DocumentPage struct {
	Items      []DocumentListItem `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int64              `json:"total_pages"`
}

// ListExtractions returns one page of documents with per-document clause counts.
func (s *ExtractionService) ListExtractions(page, pageSize int) (*DocumentPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	docs, total, err := s.docs.List(page, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	counts, err := s.clauses.CountByDocumentIDs(ids)
	if err != nil {
		return nil, err
	}

	items := make([]DocumentListItem, len(docs))
	for i, d := range docs {
		items[i] = DocumentListItem{
			DocumentID:   d.ID,
			Filename:     d.Filename,
			UploadedAt:   d.UploadedAt,
			ProcessedAt:  d.ProcessedAt,
			TotalClauses: counts[d.ID],
			Status:       d.Status,
		}
	}

	var totalPages int64
	if total > 0 {
		totalPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return &DocumentPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// fail marks the document failed with the cause preserved for display, then
// returns the cause so the triggering request surfaces an error.
func (s *ExtractionService) fail(ctx context.Context, documentID string, start time.Time, cause error) error {
	elapsed := time.Since(start).Seconds()
	msg := cause.Error()
	_ = s.docs.UpdateStatus(documentID, model.StatusFailed, &msg, &elapsed)
	s.invalidate(ctx, documentID)
	return cause
}

func (s *ExtractionService) invalidate(ctx context.Context, documentID string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, documentID)
	}
}
