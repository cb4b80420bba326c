package docparse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

func extractPDF(data []byte) (string, Metadata, error) {
	if len(data) == 0 {
		return "", Metadata{}, fmt.Errorf("empty PDF file")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", Metadata{}, fmt.Errorf("read PDF failed: %w", err)
	}

	pageCount := reader.NumPage()
	var parts []string
	for num := 1; num <= pageCount; num++ {
		pageText, err := extractPDFPage(reader, num)
		if err != nil {
			// One bad page should not sink the document; leave a marker and
			// keep going.
			parts = append(parts, fmt.Sprintf("--- Page %d ---\n[error extracting text from this page: %v]\n", num, err))
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Page %d ---\n%s\n", num, pageText))
	}

	fullText := strings.Join(parts, "\n")
	if strings.TrimSpace(fullText) == "" {
		return "", Metadata{}, fmt.Errorf("no text extracted from PDF: the file may be a scanned or image-only document that requires OCR")
	}

	return fullText, Metadata{FileType: "pdf", PageCount: pageCount}, nil
}

// extractPDFPage isolates per-page extraction; the pdf library can panic on
// malformed font tables, which must not abort the remaining pages.
func extractPDFPage(reader *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page parse panic: %v", r)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
