package estimator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/Shemantipal/Green-Receipt/internal/common"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIEstimator talks to the OpenAI chat-completions API. Text mode only.
type OpenAIEstimator struct {
	client *openai.Client
	cfg    common.EstimatorConfig
	logger *slog.Logger
}

func NewOpenAIEstimator(cfg common.EstimatorConfig, logger *slog.Logger) *OpenAIEstimator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIEstimator{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger,
	}
}

func (o *OpenAIEstimator) Estimate(ctx context.Context, in Input) (string, error) {
	if len(in.Image) > 0 {
		return "", fmt.Errorf("openai estimator: inline image input not supported")
	}

	rid := uuid.New().String()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       o.cfg.Model,
		Temperature: o.cfg.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildInstructionPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: "Receipt text:\n" + in.Text},
		},
	}

	o.logger.Info("estimator.openai.request",
		"req_id", rid,
		"model", o.cfg.Model,
		"text_len", len(in.Text),
	)

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		o.logger.Error("estimator.openai.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: openai: %v", common.ErrEstimatorUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		o.logger.Error("estimator.openai.no_choices",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: openai returned no choices", common.ErrEstimatorUnavailable)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	o.logger.Info("estimator.openai.response",
		"req_id", rid,
		"bytes", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
