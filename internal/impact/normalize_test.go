package impact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shemantipal/Green-Receipt/constants"
	"github.com/Shemantipal/Green-Receipt/internal/common"
	"github.com/Shemantipal/Green-Receipt/internal/entity"
)

func TestNormalizeSingleItem(t *testing.T) {
	raw := `{
		"store": "Corner Grocer",
		"date": "2026-08-14",
		"items": [
			{
				"name": "Milk",
				"quantity": 1,
				"unit_price": 3.50,
				"carbon_footprint_kg": 1.2,
				"water_usage_liters": 120,
				"packaging_waste_g": 40,
				"eco_rating": "C",
				"alternatives": ["Oat milk"]
			}
		],
		"recommendations": ["Buy local dairy"]
	}`

	res, err := NewNormalizer(nil).Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	item := res.Items[0]
	assert.Equal(t, "Milk", item.Name)
	assert.Equal(t, 1, item.Quantity)
	assert.InDelta(t, 3.50, item.UnitPrice, 1e-9)
	assert.Equal(t, constants.RatingC, item.EcoRating)
	assert.Equal(t, []string{"Oat milk"}, item.Alternatives)

	assert.Equal(t, "Corner Grocer", res.Store)
	assert.Equal(t, "2026-08-14", res.PurchaseDate)
	assert.Equal(t, []string{"Buy local dairy"}, res.Recommendations)
	assert.NotEqual(t, "", res.ID.String())
	assert.InDelta(t, 1.2, res.Totals.CarbonFootprintKg, 1e-9)
	assert.InDelta(t, 120, res.Totals.WaterUsageLiters, 1e-9)
	assert.InDelta(t, 40, res.Totals.PackagingWasteG, 1e-9)
	assert.InDelta(t, 3.50, res.Totals.TotalPrice, 1e-9)
}

func TestNormalizeStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"items\":[{\"name\":\"Bread\",\"carbon_footprint_kg\":0.5}]}\n```"

	res, err := NewNormalizer(nil).Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Bread", res.Items[0].Name)
}

func TestNormalizeMalformedJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"fences only", "```json\n```"},
		{"prose", "I could not read this receipt, sorry."},
		{"truncated object", `{"items": [{"name": "Milk"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNormalizer(nil).Normalize(tt.raw)
			assert.ErrorIs(t, err, common.ErrMalformedResponse)
		})
	}
}

func TestNormalizeNoItems(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty items", `{"items": []}`},
		{"missing items", `{"store": "X"}`},
		{"model error field", `{"error": "image unreadable"}`},
		{"items without names", `{"items": [{"quantity": 2}, {"name": "   "}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNormalizer(nil).Normalize(tt.raw)
			assert.ErrorIs(t, err, common.ErrNoItemsFound)
			assert.False(t, errors.Is(err, common.ErrMalformedResponse))
		})
	}
}

func TestNormalizeCoercesSynonymsAndNoise(t *testing.T) {
	raw := `{
		"items": [
			{
				"name": "Cheese",
				"quantity": "2",
				"price": "$4.25",
				"carbonFootprint": 2.0,
				"waterUsage": "300",
				"packagingWaste": -10,
				"rating": "Grade: B+",
				"ecoAlternative": "Plant-based cheese"
			}
		]
	}`

	res, err := NewNormalizer(nil).Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	item := res.Items[0]
	assert.Equal(t, 2, item.Quantity)
	assert.InDelta(t, 4.25, item.UnitPrice, 1e-9)
	assert.InDelta(t, 2.0, item.CarbonFootprintKg, 1e-9)
	assert.InDelta(t, 300, item.WaterUsageLiters, 1e-9)
	assert.Equal(t, 0.0, item.PackagingWasteG)
	assert.Equal(t, constants.RatingB, item.EcoRating)
	assert.Equal(t, []string{"Plant-based cheese"}, item.Alternatives)

	// price total is unit price times quantity
	assert.InDelta(t, 8.50, res.Totals.TotalPrice, 1e-9)
}

func TestNormalizeDefaultsMissingFields(t *testing.T) {
	raw := `{"items": [{"name": "Apples"}]}`

	res, err := NewNormalizer(nil).Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	item := res.Items[0]
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, 0.0, item.UnitPrice)
	assert.Equal(t, 0.0, item.CarbonFootprintKg)
	assert.Equal(t, 0.0, item.WaterUsageLiters)
	assert.Equal(t, 0.0, item.PackagingWasteG)
	assert.Equal(t, constants.RatingC, item.EcoRating)
}

func TestComputeTotalsIsExactSum(t *testing.T) {
	items := []entity.LineItem{
		{Name: "A", Quantity: 2, UnitPrice: 1.50, CarbonFootprintKg: 0.4, WaterUsageLiters: 50, PackagingWasteG: 10},
		{Name: "B", Quantity: 1, UnitPrice: 2.25, CarbonFootprintKg: 1.1, WaterUsageLiters: 200, PackagingWasteG: 25},
		{Name: "C", Quantity: 3, UnitPrice: 0.80, CarbonFootprintKg: 0.0, WaterUsageLiters: 0, PackagingWasteG: 0},
	}

	totals := ComputeTotals(items)
	assert.InDelta(t, 1.5, totals.CarbonFootprintKg, 1e-9)
	assert.InDelta(t, 250, totals.WaterUsageLiters, 1e-9)
	assert.InDelta(t, 35, totals.PackagingWasteG, 1e-9)
	assert.InDelta(t, 2*1.50+2.25+3*0.80, totals.TotalPrice, 1e-9)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences(`{"a":1}`))
	assert.Equal(t, "", StripCodeFences("  \n"))
}
