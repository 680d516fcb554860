package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shemantipal/Green-Receipt/constants"
	"github.com/Shemantipal/Green-Receipt/internal/common"
	"github.com/Shemantipal/Green-Receipt/internal/entity"
	"github.com/Shemantipal/Green-Receipt/internal/estimator"
	"github.com/Shemantipal/Green-Receipt/internal/extract"
)

type fakeExtractor struct {
	result extract.Result
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(ctx context.Context, doc entity.UploadedDocument) (extract.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeEstimator struct {
	response string
	err      error
	calls    int
	last     estimator.Input
}

func (f *fakeEstimator) Estimate(ctx context.Context, in estimator.Input) (string, error) {
	f.calls++
	f.last = in
	return f.response, f.err
}

const milkResponse = `{
	"store": "Corner Grocer",
	"items": [
		{"name": "Milk", "quantity": 1, "unit_price": 3.50,
		 "carbon_footprint_kg": 1.2, "water_usage_liters": 120,
		 "packaging_waste_g": 40, "eco_rating": "C"}
	]
}`

func textDoc() entity.UploadedDocument {
	return entity.UploadedDocument{Data: []byte("%PDF-1.4 fake"), MIMEType: "application/pdf", Filename: "receipt.pdf"}
}

func imageUpload() entity.UploadedDocument {
	return entity.UploadedDocument{Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}, MIMEType: "image/jpeg", Filename: "receipt.jpg"}
}

func TestAnalyzeTextModeHappyPath(t *testing.T) {
	tx := &fakeExtractor{result: extract.Result{Strategy: extract.NativeText, Text: "Milk 1 3.50", Confidence: 1}}
	est := &fakeEstimator{response: milkResponse}
	p := New(ModeText, tx, est, nil, nil)

	res, err := p.Analyze(context.Background(), textDoc())
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Milk", res.Items[0].Name)
	assert.Equal(t, constants.RatingC, res.Items[0].EcoRating)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, 1, est.calls)
	assert.Equal(t, "Milk 1 3.50", est.last.Text)
	assert.Nil(t, est.last.Image)
}

func TestAnalyzeVisionModeSkipsExtractor(t *testing.T) {
	tx := &fakeExtractor{err: errors.New("must not be called")}
	est := &fakeEstimator{response: milkResponse}
	p := New(ModeVision, tx, est, nil, nil)

	res, err := p.Analyze(context.Background(), imageUpload())
	require.NoError(t, err)
	assert.Equal(t, 0, tx.calls)
	assert.Equal(t, 1, est.calls)
	assert.Equal(t, "image/jpeg", est.last.ImageMIME)
	assert.NotEmpty(t, est.last.Image)
	assert.Empty(t, est.last.Text)
	require.Len(t, res.Items, 1)
}

func TestAnalyzeVisionModeInfersMIMEFromExtension(t *testing.T) {
	est := &fakeEstimator{response: milkResponse}
	p := New(ModeVision, &fakeExtractor{}, est, nil, nil)

	doc := entity.UploadedDocument{Data: []byte{0x89, 'P', 'N', 'G'}, Filename: "receipt.png"}
	_, err := p.Analyze(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "image/png", est.last.ImageMIME)
}

func TestAnalyzeEmptyUpload(t *testing.T) {
	p := New(ModeText, &fakeExtractor{}, &fakeEstimator{}, nil, nil)

	_, err := p.Analyze(context.Background(), entity.UploadedDocument{})
	assert.ErrorIs(t, err, common.ErrNoFileProvided)
}

func TestAnalyzeUnsupportedUploadFailsFastInBothModes(t *testing.T) {
	doc := entity.UploadedDocument{Data: []byte("plain notes"), MIMEType: "text/plain", Filename: "notes.txt"}
	for _, mode := range []Mode{ModeText, ModeVision} {
		t.Run(string(mode), func(t *testing.T) {
			est := &fakeEstimator{response: milkResponse}
			p := New(mode, &fakeExtractor{}, est, nil, nil)

			_, err := p.Analyze(context.Background(), doc)
			assert.ErrorIs(t, err, common.ErrUnsupportedFileType)
			assert.Equal(t, 0, est.calls)
		})
	}
}

func TestAnalyzeExtractionFailure(t *testing.T) {
	tx := &fakeExtractor{err: fmt.Errorf("%w: image: tesseract crashed", common.ErrExtractionExhausted)}
	est := &fakeEstimator{response: milkResponse}
	p := New(ModeText, tx, est, nil, nil)

	_, err := p.Analyze(context.Background(), imageUpload())
	assert.ErrorIs(t, err, common.ErrExtractionExhausted)
	assert.Equal(t, 0, est.calls)
}

func TestAnalyzeEstimatorFailure(t *testing.T) {
	tx := &fakeExtractor{result: extract.Result{Strategy: extract.ImageOCR, Text: "Milk 1 3.50"}}
	est := &fakeEstimator{err: fmt.Errorf("%w: request timed out", common.ErrEstimatorUnavailable)}
	p := New(ModeText, tx, est, nil, nil)

	_, err := p.Analyze(context.Background(), imageUpload())
	assert.ErrorIs(t, err, common.ErrEstimatorUnavailable)
}

func TestAnalyzeMalformedEstimatorResponse(t *testing.T) {
	tx := &fakeExtractor{result: extract.Result{Strategy: extract.ImageOCR, Text: "Milk 1 3.50"}}
	est := &fakeEstimator{response: "not json at all"}
	p := New(ModeText, tx, est, nil, nil)

	_, err := p.Analyze(context.Background(), imageUpload())
	assert.ErrorIs(t, err, common.ErrMalformedResponse)
}

func TestAnalyzeEmptyReceipt(t *testing.T) {
	tx := &fakeExtractor{result: extract.Result{Strategy: extract.ImageOCR, Text: "smudge"}}
	est := &fakeEstimator{response: `{"items": []}`}
	p := New(ModeText, tx, est, nil, nil)

	_, err := p.Analyze(context.Background(), imageUpload())
	assert.ErrorIs(t, err, common.ErrNoItemsFound)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("vision")
	require.NoError(t, err)
	assert.Equal(t, ModeVision, m)

	m, err = ParseMode("text")
	require.NoError(t, err)
	assert.Equal(t, ModeText, m)

	_, err = ParseMode("hybrid")
	assert.Error(t, err)
}
