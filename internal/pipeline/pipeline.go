package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Shemantipal/Green-Receipt/constants"
	"github.com/Shemantipal/Green-Receipt/internal/common"
	"github.com/Shemantipal/Green-Receipt/internal/entity"
	"github.com/Shemantipal/Green-Receipt/internal/estimator"
	"github.com/Shemantipal/Green-Receipt/internal/extract"
	"github.com/Shemantipal/Green-Receipt/internal/impact"
)

// Mode selects how the estimator is fed.
type Mode string

const (
	// ModeVision sends the raw upload to a multimodal model and skips the
	// text extractor entirely.
	ModeVision Mode = "vision"
	// ModeText runs the extractor first and sends its output text.
	ModeText Mode = "text"
)

// Pipeline coordinates Extractor -> Estimator -> Normalizer for one upload.
// Each run is an independent unit of work; there is no shared mutable state
// across requests.
type Pipeline struct {
	mode       Mode
	extractor  extract.TextExtractor
	estimator  estimator.Estimator
	normalizer *impact.Normalizer
	logger     *slog.Logger
}

func New(mode Mode, tx extract.TextExtractor, est estimator.Estimator, norm *impact.Normalizer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if norm == nil {
		norm = impact.NewNormalizer(logger)
	}
	return &Pipeline{mode: mode, extractor: tx, estimator: est, normalizer: norm, logger: logger}
}

// run tracks the per-request state machine:
// RECEIVED -> EXTRACTING -> ESTIMATING -> VALIDATING -> SUCCEEDED,
// with any stage error jumping straight to FAILED.
type run struct {
	id     string
	state  constants.PipelineState
	start  time.Time
	logger *slog.Logger
}

func (r *run) transition(to constants.PipelineState) {
	r.logger.Debug("pipeline.transition", "run_id", r.id, "from", string(r.state), "to", string(to))
	r.state = to
}

func (r *run) fail(err error) error {
	r.state = constants.StateFailed
	r.logger.Error("pipeline.failed",
		"run_id", r.id,
		"kind", common.FailureKind(err),
		"error", err,
		"elapsed_ms", time.Since(r.start).Milliseconds(),
	)
	return err
}

// Analyze runs the full pipeline for one uploaded document. On failure the
// returned error wraps exactly one taxonomy kind; no partial result is ever
// returned.
func (p *Pipeline) Analyze(ctx context.Context, doc entity.UploadedDocument) (*entity.AnalysisResult, error) {
	r := &run{
		id:     uuid.New().String(),
		state:  constants.StateReceived,
		start:  time.Now(),
		logger: p.logger,
	}

	if len(doc.Data) == 0 {
		return nil, r.fail(common.ErrNoFileProvided)
	}

	// resolve the document family up front so unsupported uploads fail fast
	// in both modes
	format, ext, err := extract.ResolveFormat(doc)
	if err != nil {
		return nil, r.fail(err)
	}

	p.logger.Info("pipeline.start",
		"run_id", r.id,
		"mode", string(p.mode),
		"filename", doc.Filename,
		"format", string(format),
		"bytes", len(doc.Data),
	)

	var input estimator.Input
	switch p.mode {
	case ModeVision:
		mimeType := doc.MIMEType
		if constants.IsGenericMIME(mimeType) {
			mimeType = constants.MIMEForExt(ext)
		}
		input = estimator.Input{Image: doc.Data, ImageMIME: mimeType}
	default:
		r.transition(constants.StateExtracting)
		res, err := p.extractor.Extract(ctx, doc)
		if err != nil {
			return nil, r.fail(err)
		}
		p.logger.Info("pipeline.extracted",
			"run_id", r.id,
			"strategy", string(res.Strategy),
			"text_len", len(res.Text),
			"confidence", res.Confidence,
			"pages", res.Pages,
		)
		input = estimator.Input{Text: res.Text}
	}

	r.transition(constants.StateEstimating)
	raw, err := p.estimator.Estimate(ctx, input)
	if err != nil {
		return nil, r.fail(err)
	}

	r.transition(constants.StateValidating)
	result, err := p.normalizer.Normalize(raw)
	if err != nil {
		return nil, r.fail(err)
	}

	r.transition(constants.StateSucceeded)
	p.logger.Info("pipeline.succeeded",
		"run_id", r.id,
		"analysis_id", result.ID,
		"items", len(result.Items),
		"overall_rating", string(result.OverallRating),
		"elapsed_ms", time.Since(r.start).Milliseconds(),
	)
	return result, nil
}

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeVision, ModeText:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown pipeline mode: %q", s)
	}
}
