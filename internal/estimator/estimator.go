package estimator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Shemantipal/Green-Receipt/internal/common"
)

// New builds the configured provider. The returned closer is non-nil when the
// provider holds a connection worth releasing at shutdown.
func New(ctx context.Context, cfg common.EstimatorConfig, logger *slog.Logger) (Estimator, io.Closer, error) {
	switch cfg.Provider {
	case "gemini":
		g, err := NewGeminiEstimator(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return g, g, nil
	case "openai":
		if cfg.Mode == "vision" {
			return nil, nil, fmt.Errorf("vision mode requires the gemini provider")
		}
		return NewOpenAIEstimator(cfg, logger), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown estimator provider: %q", cfg.Provider)
	}
}
