package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"clauseminer/internal/model"
)

func TestExportClausesXLSX(t *testing.T) {
	svc, _, clauses := newTestService(&fakeExtractor{}, "")
	doc := mustCreate(t, svc)

	page := 2
	clauses.byDocument[doc.ID] = []model.Clause{
		{ID: "a", DocumentID: doc.ID, ClauseID: "clause_001", Title: "Termination", Content: "Either party may terminate.", ClauseType: "termination", PageNumber: &page, OrderIndex: 0},
		{ID: "b", DocumentID: doc.ID, ClauseID: "clause_002", Content: "Payment due in 30 days.", ClauseType: "payment", OrderIndex: 1},
	}

	exports := NewExportService(svc)
	payload, filename, err := exports.ExportClausesXLSX(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("ExportClausesXLSX: %v", err)
	}
	if filename != "clauses-"+doc.ID+".xlsx" {
		t.Fatalf("unexpected filename %q", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Clauses")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 clause rows, got %d", len(rows))
	}
	if rows[0][0] != "Clause ID" {
		t.Fatalf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "clause_001" || rows[1][4] != "2" {
		t.Fatalf("unexpected first clause row: %v", rows[1])
	}
	if rows[2][0] != "clause_002" || rows[2][3] != "Payment due in 30 days." {
		t.Fatalf("unexpected second clause row: %v", rows[2])
	}
}

func TestExportClausesXLSXMissingDocument(t *testing.T) {
	svc, _, _ := newTestService(&fakeExtractor{}, "")
	exports := NewExportService(svc)

	if _, _, err := exports.ExportClausesXLSX(context.Background(), "missing-id"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
