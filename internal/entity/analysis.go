package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/Shemantipal/Green-Receipt/constants"
)

// UploadedDocument is the immutable value created at request ingress. It is
// owned by a single pipeline invocation and discarded when it returns.
type UploadedDocument struct {
	Data     []byte
	MIMEType string
	Filename string
}

// LineItem is one purchased item with its estimated environmental impact.
type LineItem struct {
	Name              string           `json:"name"`
	Quantity          int              `json:"quantity"`
	UnitPrice         float64          `json:"unit_price"`
	CarbonFootprintKg float64          `json:"carbon_footprint_kg"`
	WaterUsageLiters  float64          `json:"water_usage_liters"`
	PackagingWasteG   float64          `json:"packaging_waste_g"`
	EcoRating         constants.Rating `json:"eco_rating"`
	Alternatives      []string         `json:"alternatives,omitempty"`
}

// Totals are always recomputed from the items; a model-supplied total is
// never trusted.
type Totals struct {
	CarbonFootprintKg float64 `json:"carbon_footprint_kg"`
	WaterUsageLiters  float64 `json:"water_usage_liters"`
	PackagingWasteG   float64 `json:"packaging_waste_g"`
	TotalPrice        float64 `json:"total_price"`
}

// AnalysisResult is the full scorecard for one receipt. Items keep receipt
// order. It is created once per successful pipeline run and never mutated.
type AnalysisResult struct {
	ID              uuid.UUID        `json:"id"`
	Store           string           `json:"store,omitempty"`
	PurchaseDate    string           `json:"purchase_date,omitempty"`
	Items           []LineItem       `json:"items"`
	Totals          Totals           `json:"totals"`
	OverallRating   constants.Rating `json:"overall_rating"`
	Recommendations []string         `json:"recommendations,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}
