package estimator

import "strings"

// maxPromptTextLen caps how much extracted text is embedded in the prompt.
const maxPromptTextLen = 6000

// BuildInstructionPrompt composes the fixed instruction the model receives in
// both modes. The schema is spelled out inline because not every provider
// supports structured-output constraints.
func BuildInstructionPrompt() string {
	parts := []string{
		"You are an environmental impact analyzer. Analyze this receipt and extract every purchased item.",
		"For each item, estimate its environmental impact: carbon footprint in kilograms of CO2e, water usage in liters, and packaging waste in grams.",
		"Grade each item with an eco rating from A (best) to F (worst) and suggest up to three more sustainable alternatives.",
		"Return ONLY a valid JSON object in this exact format:",
		`{
  "store": "store name if visible",
  "date": "purchase date if visible (YYYY-MM-DD)",
  "items": [
    {
      "name": "item name",
      "quantity": 1,
      "unit_price": 3.50,
      "carbon_footprint_kg": 1.2,
      "water_usage_liters": 150,
      "packaging_waste_g": 25,
      "eco_rating": "B",
      "alternatives": ["suggestion"]
    }
  ],
  "recommendations": ["overall suggestion"]
}`,
		"All numbers must be non-negative. quantity is a positive integer.",
		"eco_rating must be exactly one of: A, B, C, D, F.",
		"Never output null. If a field is unknown, omit it.",
		"Do not wrap the JSON in markdown code fences.",
		`If the receipt is unreadable or contains no purchasable items, return {"items": []}.`,
	}
	return strings.Join(parts, "\n")
}

// BuildTextPrompt embeds extracted receipt text under the instruction for
// text-mode calls.
func BuildTextPrompt(text string) string {
	t := strings.TrimSpace(text)
	if len(t) > maxPromptTextLen {
		t = t[:maxPromptTextLen] + "\n…(truncated)"
	}

	var b strings.Builder
	b.WriteString(BuildInstructionPrompt())
	b.WriteString("\n\nReceipt text:\n")
	b.WriteString(t)
	return b.String()
}
