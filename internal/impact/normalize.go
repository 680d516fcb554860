package impact

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shemantipal/Green-Receipt/internal/common"
	"github.com/Shemantipal/Green-Receipt/internal/entity"
)

// Normalizer turns raw model output into a validated AnalysisResult. Pure:
// no I/O beyond logging.
type Normalizer struct {
	logger *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize parses, repairs, and re-derives. Totals and the overall rating
// are always recomputed from per-item data; the model's aggregate claims are
// discarded.
func (n *Normalizer) Normalize(raw string) (*entity.AnalysisResult, error) {
	text := StripCodeFences(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty model output", common.ErrMalformedResponse)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		n.logger.Warn("impact.parse_failed", "error", err, "raw", truncateForLog(text))
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	// a model-level refusal ({"error": "..."}) counts as an empty receipt
	if msg := strings.TrimSpace(asString(payload["error"])); msg != "" {
		return nil, fmt.Errorf("%w: %s", common.ErrNoItemsFound, msg)
	}

	// strict pass first; failures are logged and handed to the lenient
	// per-item coercion below
	if err := ValidateAgainstSchema(BuildAnalysisJSONSchema(), []byte(text)); err != nil {
		n.logger.Warn("impact.schema_validation_failed", "error", err)
	}

	rawItems, ok := payload["items"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: items array missing", common.ErrNoItemsFound)
	}

	items := make([]entity.LineItem, 0, len(rawItems))
	for _, ri := range rawItems {
		m, ok := ri.(map[string]any)
		if !ok {
			continue
		}
		if item, ok := coerceItem(m); ok {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: receipt yielded no usable items", common.ErrNoItemsFound)
	}

	totals := ComputeTotals(items)

	return &entity.AnalysisResult{
		ID:              uuid.New(),
		Store:           strings.TrimSpace(asString(payload["store"])),
		PurchaseDate:    strings.TrimSpace(asString(payload["date"])),
		Items:           items,
		Totals:          totals,
		OverallRating:   DeriveRating(totals, len(items)),
		Recommendations: asStringSlice(payload["recommendations"]),
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// ComputeTotals is the exact per-item sum. Impact figures sum directly;
// price sums as unit price times quantity.
func ComputeTotals(items []entity.LineItem) entity.Totals {
	var t entity.Totals
	for _, it := range items {
		t.CarbonFootprintKg += it.CarbonFootprintKg
		t.WaterUsageLiters += it.WaterUsageLiters
		t.PackagingWasteG += it.PackagingWasteG
		t.TotalPrice += it.UnitPrice * float64(it.Quantity)
	}
	return t
}

func truncateForLog(s string) string {
	const max = 500
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
