package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Shemantipal/Green-Receipt/constants"
	"github.com/Shemantipal/Green-Receipt/internal/common"
	"github.com/Shemantipal/Green-Receipt/internal/entity"
	"github.com/Shemantipal/Green-Receipt/internal/ocr"
)

// MinViableTextLen is the minimum normalized text length a strategy must
// produce to count as a usable extraction. Anything shorter means the
// document is effectively image-only.
const MinViableTextLen = 5

// OCREngine is the rasterize-and-recognize backend for documents without a
// usable text layer.
type OCREngine interface {
	RecognizeImage(ctx context.Context, data []byte, ext string) (ocr.Result, error)
	RecognizePDF(ctx context.Context, data []byte) (ocr.Result, error)
}

// Extractor picks an extraction strategy from the document's type and falls
// through the chain until one yields viable text. Strategy errors are
// recovered locally; only exhaustion of the whole chain is returned.
type Extractor struct {
	native NativeReader
	engine OCREngine
	logger *slog.Logger
}

func NewExtractor(native NativeReader, engine OCREngine, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if native == nil {
		native = PDFTextReader{}
	}
	return &Extractor{native: native, engine: engine, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, doc entity.UploadedDocument) (Result, error) {
	format, ext, err := ResolveFormat(doc)
	if err != nil {
		return Result{}, err
	}

	e.logger.Debug("extract.start", "filename", doc.Filename, "format", string(format), "bytes", len(doc.Data))

	switch format {
	case constants.PDF:
		return e.extractPDF(ctx, doc.Data)
	case constants.IMAGE:
		return e.extractImage(ctx, doc.Data, ext)
	default:
		return Result{}, fmt.Errorf("%w: %q", common.ErrUnsupportedFileType, doc.MIMEType)
	}
}

// extractPDF tries the native text layer first, then rasterize+OCR.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) (Result, error) {
	var warnings []string

	text, pages, err := e.native.Text(data)
	if err == nil {
		if normalized := ocr.Normalize(text); len(normalized) >= MinViableTextLen {
			return Result{
				Strategy:   NativeText,
				Text:       normalized,
				Confidence: 1.0,
				Pages:      pages,
			}, nil
		}
		warnings = append(warnings, "native text layer below viability threshold")
		e.logger.Info("extract.native_text_too_short", "pages", pages)
	} else {
		warnings = append(warnings, err.Error())
		e.logger.Warn("extract.native_text_failed", "error", err)
	}

	res, err := e.engine.RecognizePDF(ctx, data)
	warnings = append(warnings, res.Warnings...)
	if err != nil {
		e.logger.Warn("extract.pdf_ocr_failed", "error", err)
		return Result{Warnings: warnings}, fmt.Errorf("%w: pdf: %v", common.ErrExtractionExhausted, err)
	}
	if len(res.Text) < MinViableTextLen {
		return Result{Warnings: warnings}, fmt.Errorf("%w: pdf ocr yielded no usable text", common.ErrExtractionExhausted)
	}

	return Result{
		Strategy:   PDFOCR,
		Text:       res.Text,
		Confidence: res.Confidence,
		Pages:      res.Pages,
		Warnings:   warnings,
	}, nil
}

// extractImage has a single strategy: OCR.
func (e *Extractor) extractImage(ctx context.Context, data []byte, ext string) (Result, error) {
	res, err := e.engine.RecognizeImage(ctx, data, ext)
	if err != nil {
		e.logger.Warn("extract.image_ocr_failed", "error", err)
		return Result{Warnings: res.Warnings}, fmt.Errorf("%w: image: %v", common.ErrExtractionExhausted, err)
	}
	if len(res.Text) < MinViableTextLen {
		return Result{Warnings: res.Warnings}, fmt.Errorf("%w: image ocr yielded no usable text", common.ErrExtractionExhausted)
	}
	if res.Confidence > 0 && res.Confidence < ocr.ImageConfidenceThreshold {
		e.logger.Warn("extract.image_ocr_low_confidence", "confidence", res.Confidence)
		res.Warnings = append(res.Warnings, "image ocr confidence below threshold")
	}

	return Result{
		Strategy:   ImageOCR,
		Text:       res.Text,
		Confidence: res.Confidence,
		Pages:      res.Pages,
		Warnings:   res.Warnings,
	}, nil
}

// ResolveFormat determines the document family from the declared MIME type,
// falling back to the filename extension, then to content sniffing.
func ResolveFormat(doc entity.UploadedDocument) (constants.FileFormat, string, error) {
	ext := constants.NormalizeExt(filepath.Ext(doc.Filename))

	if !constants.IsGenericMIME(doc.MIMEType) {
		if format := constants.MapMIMEToFormat(doc.MIMEType); format != "" {
			if ext == "" {
				ext = extForFormat(format, doc.MIMEType)
			}
			return format, ext, nil
		}
		return "", "", fmt.Errorf("%w: %q", common.ErrUnsupportedFileType, doc.MIMEType)
	}

	// declared type is missing or generic: infer from the filename extension
	if format := constants.MapExtToFormat(ext); format != "" {
		return format, ext, nil
	}

	// last resort: sniff the bytes
	mt := mimetype.Detect(doc.Data)
	if format := constants.MapMIMEToFormat(mt.String()); format != "" {
		return format, constants.NormalizeExt(mt.Extension()), nil
	}

	return "", "", fmt.Errorf("%w: %q (%s)", common.ErrUnsupportedFileType, doc.Filename, mt.String())
}

func extForFormat(format constants.FileFormat, mimeType string) string {
	if format == constants.PDF {
		return "pdf"
	}
	switch constants.MapMIMEToFormat(mimeType) {
	case constants.IMAGE:
		switch mimeType {
		case "image/png":
			return "png"
		case "image/webp":
			return "webp"
		default:
			return "jpg"
		}
	}
	return ""
}
