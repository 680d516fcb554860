package estimator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/Shemantipal/Green-Receipt/internal/common"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiEstimator talks to the Gemini API. It is the only provider here that
// accepts inline binary input, so vision mode requires it.
type GeminiEstimator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	cfg    common.EstimatorConfig
	logger *slog.Logger
}

func NewGeminiEstimator(ctx context.Context, cfg common.EstimatorConfig, logger *slog.Logger) (*GeminiEstimator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	model.ResponseMIMEType = "application/json"

	return &GeminiEstimator{client: client, model: model, cfg: cfg, logger: logger}, nil
}

func (g *GeminiEstimator) Close() error {
	return g.client.Close()
}

func (g *GeminiEstimator) Estimate(ctx context.Context, in Input) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	var parts []genai.Part
	if len(in.Image) > 0 {
		parts = append(parts, genai.Blob{MIMEType: in.ImageMIME, Data: in.Image})
		parts = append(parts, genai.Text(BuildInstructionPrompt()))
	} else {
		parts = append(parts, genai.Text(BuildTextPrompt(in.Text)))
	}

	g.logger.Info("estimator.gemini.request",
		"req_id", rid,
		"model", g.cfg.Model,
		"image_bytes", len(in.Image),
		"text_len", len(in.Text),
	)

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		g.logger.Error("estimator.gemini.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: gemini: %v", common.ErrEstimatorUnavailable, err)
	}

	text := collectText(resp)
	if text == "" {
		g.logger.Error("estimator.gemini.empty_response",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: gemini returned no text", common.ErrEstimatorUnavailable)
	}

	g.logger.Info("estimator.gemini.response",
		"req_id", rid,
		"bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
