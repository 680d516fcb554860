package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NativeReader pulls the embedded text layer out of a page-description
// document without rendering it.
type NativeReader interface {
	Text(data []byte) (text string, pages int, err error)
}

// PDFTextReader reads the native text layer of a PDF.
type PDFTextReader struct{}

func (PDFTextReader) Text(data []byte) (text string, pages int, err error) {
	// the pdf package panics on some malformed inputs; turn that into an
	// error so the caller can fall back to OCR
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf text layer: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(txt)
		buf.WriteString("\n")
	}

	return buf.String(), numPages, nil
}
