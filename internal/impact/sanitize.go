package impact

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Shemantipal/Green-Receipt/constants"
	"github.com/Shemantipal/Green-Receipt/internal/entity"
)

var reFence = regexp.MustCompile("```(?:json)?\n?")

// StripCodeFences removes the markdown fences models like to wrap JSON in.
func StripCodeFences(s string) string {
	return strings.TrimSpace(reFence.ReplaceAllString(s, ""))
}

// itemFieldSynonyms renames keys the model variants have been seen emitting
// onto the canonical schema names.
var itemFieldSynonyms = map[string]string{
	"carbonFootprint":       "carbon_footprint_kg",
	"carbon_footprint":      "carbon_footprint_kg",
	"waterUsage":            "water_usage_liters",
	"water_usage":           "water_usage_liters",
	"packagingWaste":        "packaging_waste_g",
	"packaging_waste_grams": "packaging_waste_g",
	"price":                 "unit_price",
	"unitPrice":             "unit_price",
	"ecoRating":             "eco_rating",
	"rating":                "eco_rating",
	"ecoAlternative":        "alternatives",
	"eco_alternative":       "alternatives",
}

// coerceItem turns one raw model item into a LineItem, defaulting what is
// missing and clamping what is out of range. ok=false means the entry is not
// a usable item at all (no name).
func coerceItem(m map[string]any) (entity.LineItem, bool) {
	for from, to := range itemFieldSynonyms {
		if v, exists := m[from]; exists {
			if _, taken := m[to]; !taken {
				m[to] = v
			}
			delete(m, from)
		}
	}

	name := strings.TrimSpace(asString(m["name"]))
	if name == "" {
		return entity.LineItem{}, false
	}

	qty := int(asFloat(m["quantity"], 1))
	if qty < 1 {
		qty = 1
	}

	rating, _ := constants.CanonicalizeRating(asString(m["eco_rating"]))

	return entity.LineItem{
		Name:              name,
		Quantity:          qty,
		UnitPrice:         clampNonNegative(asFloat(m["unit_price"], 0)),
		CarbonFootprintKg: clampNonNegative(asFloat(m["carbon_footprint_kg"], 0)),
		WaterUsageLiters:  clampNonNegative(asFloat(m["water_usage_liters"], 0)),
		PackagingWasteG:   clampNonNegative(asFloat(m["packaging_waste_g"], 0)),
		EcoRating:         rating,
		Alternatives:      asStringSlice(m["alternatives"]),
	}, true
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asFloat accepts the shapes models actually produce for numbers: JSON
// numbers, numeric strings, and strings with currency noise ("$3.50").
func asFloat(v any, def float64) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		s := strings.TrimSpace(t)
		s = strings.Trim(s, "$£€ ")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return def
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return def
	default:
		return def
	}
}

func asStringSlice(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s := strings.TrimSpace(asString(e)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return nil
	default:
		return nil
	}
}

func clampNonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
