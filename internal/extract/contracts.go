package extract

import (
	"context"

	"github.com/Shemantipal/Green-Receipt/internal/entity"
)

// Strategy identifies which extraction path produced the text.
type Strategy string

const (
	NativeText Strategy = "native-text"
	PDFOCR     Strategy = "pdf-ocr"
	ImageOCR   Strategy = "image-ocr"
)

// Result is the output of the text-extraction stage. Text is empty only when
// every strategy failed, in which case Extract returns an error instead.
type Result struct {
	Strategy   Strategy
	Text       string
	Confidence float32
	Pages      int
	Warnings   []string
}

// TextExtractor is stage 1 of the pipeline: uploaded bytes -> plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc entity.UploadedDocument) (Result, error)
}
