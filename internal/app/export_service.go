package app

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportService renders the clauses of one document as an XLSX workbook.
type ExportService struct {
	extractions *ExtractionService
}

func NewExportService(extractions *ExtractionService) *ExportService {
	return &ExportService{extractions: extractions}
}

// ExportClausesXLSX returns workbook bytes plus a suggested filename. It
// serves any document that exists, including failed ones (empty sheet).
func (s *ExportService) ExportClausesXLSX(ctx context.Context, documentID string) ([]byte, string, error) {
	doc, clauses, err := s.extractions.GetExtraction(ctx, documentID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	const sheet = "Clauses"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("create export sheet failed: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Clause ID",
		"Title",
		"Type",
		"Content",
		"Page",
		"Start",
		"End",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, c := range clauses {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, c.ClauseID)
		write(2, c.Title)
		write(3, c.ClauseType)
		write(4, c.Content)
		if c.PageNumber != nil {
			write(5, *c.PageNumber)
		}
		if c.StartPosition != nil {
			write(6, *c.StartPosition)
		}
		if c.EndPosition != nil {
			write(7, *c.EndPosition)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write export workbook failed: %w", err)
	}

	name := fmt.Sprintf("clauses-%s.xlsx", doc.ID)
	return buf.Bytes(), name, nil
}
