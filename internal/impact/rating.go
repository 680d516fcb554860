package impact

import (
	"github.com/Shemantipal/Green-Receipt/constants"
	"github.com/Shemantipal/Green-Receipt/internal/entity"
)

// Reference ceilings for a single "heavy" item. Per-item averages are
// normalized against these before weighting; values at or above the ceiling
// saturate at 1.
const (
	refCarbonPerItemKg   = 5.0
	refWaterPerItemL     = 500.0
	refPackagingPerItemG = 100.0
)

// Component weights. Carbon dominates, packaging matters least.
const (
	weightCarbon    = 0.5
	weightWater     = 0.3
	weightPackaging = 0.2
)

// DeriveRating maps recomputed totals onto the A-F scale. Pure and
// deterministic: same totals and item count, same grade, every time.
//
// Buckets on the weighted 0..1 impact score:
//
//	A < 0.15, B < 0.30, C < 0.50, D < 0.70, F otherwise
func DeriveRating(totals entity.Totals, itemCount int) constants.Rating {
	if itemCount <= 0 {
		return constants.RatingC
	}
	n := float64(itemCount)

	carbon := clamp01(totals.CarbonFootprintKg / n / refCarbonPerItemKg)
	water := clamp01(totals.WaterUsageLiters / n / refWaterPerItemL)
	packaging := clamp01(totals.PackagingWasteG / n / refPackagingPerItemG)

	score := weightCarbon*carbon + weightWater*water + weightPackaging*packaging

	switch {
	case score < 0.15:
		return constants.RatingA
	case score < 0.30:
		return constants.RatingB
	case score < 0.50:
		return constants.RatingC
	case score < 0.70:
		return constants.RatingD
	default:
		return constants.RatingF
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
