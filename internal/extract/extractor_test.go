package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shemantipal/Green-Receipt/constants"
	"github.com/Shemantipal/Green-Receipt/internal/common"
	"github.com/Shemantipal/Green-Receipt/internal/entity"
	"github.com/Shemantipal/Green-Receipt/internal/ocr"
)

type fakeNative struct {
	text  string
	pages int
	err   error
	calls int
}

func (f *fakeNative) Text(data []byte) (string, int, error) {
	f.calls++
	return f.text, f.pages, f.err
}

type fakeEngine struct {
	imageResult ocr.Result
	imageErr    error
	pdfResult   ocr.Result
	pdfErr      error

	imageCalls int
	pdfCalls   int
}

func (f *fakeEngine) RecognizeImage(ctx context.Context, data []byte, ext string) (ocr.Result, error) {
	f.imageCalls++
	return f.imageResult, f.imageErr
}

func (f *fakeEngine) RecognizePDF(ctx context.Context, data []byte) (ocr.Result, error) {
	f.pdfCalls++
	return f.pdfResult, f.pdfErr
}

func pdfDoc() entity.UploadedDocument {
	return entity.UploadedDocument{Data: []byte("%PDF-1.4 fake"), MIMEType: "application/pdf", Filename: "receipt.pdf"}
}

func imageDoc() entity.UploadedDocument {
	return entity.UploadedDocument{Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}, MIMEType: "image/jpeg", Filename: "receipt.jpg"}
}

func TestExtractNativeTextSkipsOCR(t *testing.T) {
	native := &fakeNative{text: "MILK 3.50\nBREAD 2.10", pages: 1}
	engine := &fakeEngine{}
	ex := NewExtractor(native, engine, nil)

	res, err := ex.Extract(context.Background(), pdfDoc())
	require.NoError(t, err)
	assert.Equal(t, NativeText, res.Strategy)
	assert.Contains(t, res.Text, "MILK 3.50")
	assert.Equal(t, float32(1.0), res.Confidence)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, 0, engine.pdfCalls)
	assert.Equal(t, 0, engine.imageCalls)
}

func TestExtractShortNativeTextFallsBackToOCR(t *testing.T) {
	native := &fakeNative{text: " \n\t ", pages: 2}
	engine := &fakeEngine{pdfResult: ocr.Result{Text: "MILK 3.50", Pages: 2, Confidence: 0.8}}
	ex := NewExtractor(native, engine, nil)

	res, err := ex.Extract(context.Background(), pdfDoc())
	require.NoError(t, err)
	assert.Equal(t, PDFOCR, res.Strategy)
	assert.Equal(t, "MILK 3.50", res.Text)
	assert.Equal(t, 1, engine.pdfCalls)
	assert.NotEmpty(t, res.Warnings)
}

func TestExtractNativeErrorFallsBackToOCR(t *testing.T) {
	native := &fakeNative{err: errors.New("pdf text layer: broken xref")}
	engine := &fakeEngine{pdfResult: ocr.Result{Text: "TOTAL 12.99", Pages: 1, Confidence: 0.7}}
	ex := NewExtractor(native, engine, nil)

	res, err := ex.Extract(context.Background(), pdfDoc())
	require.NoError(t, err)
	assert.Equal(t, PDFOCR, res.Strategy)
	assert.Equal(t, 1, engine.pdfCalls)
}

func TestExtractPDFExhausted(t *testing.T) {
	tests := []struct {
		name   string
		engine *fakeEngine
	}{
		{"ocr error", &fakeEngine{pdfErr: errors.New("pdftoppm: exit status 1")}},
		{"ocr empty text", &fakeEngine{pdfResult: ocr.Result{Text: "ab"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			native := &fakeNative{err: errors.New("no text layer")}
			ex := NewExtractor(native, tt.engine, nil)

			_, err := ex.Extract(context.Background(), pdfDoc())
			assert.ErrorIs(t, err, common.ErrExtractionExhausted)
		})
	}
}

func TestExtractImageUsesOCROnly(t *testing.T) {
	native := &fakeNative{text: "should never be consulted"}
	engine := &fakeEngine{imageResult: ocr.Result{Text: "EGGS 4.20", Pages: 1, Confidence: 0.9}}
	ex := NewExtractor(native, engine, nil)

	res, err := ex.Extract(context.Background(), imageDoc())
	require.NoError(t, err)
	assert.Equal(t, ImageOCR, res.Strategy)
	assert.Equal(t, "EGGS 4.20", res.Text)
	assert.Equal(t, 1, engine.imageCalls)
	assert.Equal(t, 0, native.calls)
}

func TestExtractImageLowConfidenceWarns(t *testing.T) {
	engine := &fakeEngine{imageResult: ocr.Result{Text: "BLURRY 1.00", Confidence: 0.3}}
	ex := NewExtractor(nil, engine, nil)

	res, err := ex.Extract(context.Background(), imageDoc())
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, "image ocr confidence below threshold")
}

func TestExtractImageExhausted(t *testing.T) {
	engine := &fakeEngine{imageErr: errors.New("tesseract: exit status 1")}
	ex := NewExtractor(nil, engine, nil)

	_, err := ex.Extract(context.Background(), imageDoc())
	assert.ErrorIs(t, err, common.ErrExtractionExhausted)
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name       string
		doc        entity.UploadedDocument
		wantFormat constants.FileFormat
		wantExt    string
		wantErr    error
	}{
		{
			"declared pdf mime",
			entity.UploadedDocument{MIMEType: "application/pdf", Filename: "x.pdf"},
			constants.PDF, "pdf", nil,
		},
		{
			"declared image mime without extension",
			entity.UploadedDocument{MIMEType: "image/png", Filename: "upload"},
			constants.IMAGE, "png", nil,
		},
		{
			"generic mime falls back to extension",
			entity.UploadedDocument{MIMEType: "application/octet-stream", Filename: "scan.JPG"},
			constants.IMAGE, "jpg", nil,
		},
		{
			"no mime no extension sniffs content",
			entity.UploadedDocument{Data: []byte("%PDF-1.7\nstuff"), Filename: "upload"},
			constants.PDF, "pdf", nil,
		},
		{
			"declared unsupported mime",
			entity.UploadedDocument{MIMEType: "text/html", Filename: "x.html"},
			"", "", common.ErrUnsupportedFileType,
		},
		{
			"unrecognizable bytes",
			entity.UploadedDocument{Data: []byte("hello world"), Filename: "notes"},
			"", "", common.ErrUnsupportedFileType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, ext, err := ResolveFormat(tt.doc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, format)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}
