package docparse

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDOCX pulls paragraph text out of word/document.xml inside the OOXML
// zip container. Legacy binary .doc files are not zip archives and fail here
// with a descriptive error.
func extractDOCX(data []byte) (string, Metadata, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", Metadata{}, fmt.Errorf("read DOCX failed (not a valid Word document): %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", Metadata{}, fmt.Errorf("open DOCX document.xml failed: %w", err)
			}
			docXML, err = io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				return "", Metadata{}, fmt.Errorf("read DOCX document.xml failed: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", Metadata{}, fmt.Errorf("DOCX is missing word/document.xml")
	}

	paragraphs, err := docxParagraphs(docXML)
	if err != nil {
		return "", Metadata{}, fmt.Errorf("parse DOCX document.xml failed: %w", err)
	}

	return strings.Join(paragraphs, "\n\n"), Metadata{FileType: "docx", ParagraphCount: len(paragraphs)}, nil
}

// docxParagraphs walks the WordprocessingML token stream: text lives in <w:t>
// elements, paragraph boundaries are </w:p>.
func docxParagraphs(docXML []byte) ([]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(docXML))

	var paragraphs []string
	var current strings.Builder
	var inText bool

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
