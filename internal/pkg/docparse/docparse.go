// Package docparse extracts plain text from uploaded contract files.
// PDF uses ledongthuc/pdf; DOCX is read straight from the OOXML zip
// (word/document.xml), so no external dependency is needed for it.
package docparse

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Metadata struct {
	FileType       string `json:"file_type"`
	PageCount      int    `json:"page_count,omitempty"`
	ParagraphCount int    `json:"paragraph_count,omitempty"`
}

// ExtractText returns the plain text of a PDF or DOCX file. The filename
// extension decides the parser; anything else is rejected with a descriptive
// error. A PDF without any extractable text is an error too (scanned or
// image-only documents are out of scope).
func ExtractText(data []byte, filename string) (string, Metadata, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return extractPDF(data)
	case ".docx", ".doc":
		return extractDOCX(data)
	default:
		return "", Metadata{}, fmt.Errorf("unsupported file type %q: supported formats are PDF and DOCX", ext)
	}
}
