package handlers

import (
	"reflect"
	"testing"
)

func TestParseStableUpdateOnlyTouchesPresentFields(t *testing.T) {
	input, err := parseStableUpdate(map[string]string{"Rating": "4.5"})
	if err != nil {
		t.Fatalf("parseStableUpdate returned error: %v", err)
	}

	if !input.RatingSet || input.Rating != 4.5 {
		t.Fatalf("expected Rating 4.5 set, got %+v", input)
	}
	if input.TitleSet || input.DetailsSet || input.ImagesSet || input.PriceRatesSet || input.DateSlotsSet {
		t.Fatalf("expected absent fields to stay unset, got %+v", input)
	}
}

func TestParseStableUpdateStringAndStructuredRatesMatch(t *testing.T) {
	encoded := `[{"Rate":120,"RateType":"hourly"},{"Rate":"600","RateType":"daily"}]`

	// parseBody reduces a structured JSON array and a pre-serialized string to
	// the same JSON text, so a single fixture covers both client encodings.
	structured, err := parseStableUpdate(map[string]string{"PriceRate": encoded})
	if err != nil {
		t.Fatalf("structured parse failed: %v", err)
	}
	stringForm, err := parseStableUpdate(map[string]string{"PriceRate": " " + encoded + " "})
	if err != nil {
		t.Fatalf("string-form parse failed: %v", err)
	}

	if !reflect.DeepEqual(structured.PriceRates, stringForm.PriceRates) {
		t.Fatalf("encodings diverged: %+v vs %+v", structured.PriceRates, stringForm.PriceRates)
	}
	if len(structured.PriceRates) != 2 || structured.PriceRates[0].Rate != 120 || structured.PriceRates[1].Rate != 600 {
		t.Fatalf("unexpected rates: %+v", structured.PriceRates)
	}
	if structured.PriceRates[1].RateType != "daily" {
		t.Fatalf("unexpected rate type: %+v", structured.PriceRates[1])
	}
}

func TestParseStableUpdateSlots(t *testing.T) {
	input, err := parseStableUpdate(map[string]string{
		"DateSlot": `[{"Date":"2025-06-01","StartTime":"09:00","EndTime":"12:00"}]`,
	})
	if err != nil {
		t.Fatalf("parseStableUpdate returned error: %v", err)
	}
	if len(input.DateSlots) != 1 || input.DateSlots[0].Date != "2025-06-01" {
		t.Fatalf("unexpected slots: %+v", input.DateSlots)
	}
	if input.DateSlots[0].StartTime != "09:00" || input.DateSlots[0].EndTime != "12:00" {
		t.Fatalf("unexpected slot times: %+v", input.DateSlots[0])
	}
}

func TestParseStableUpdateRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"non-numeric rating", map[string]string{"Rating": "high"}},
		{"rate not a list", map[string]string{"PriceRate": `{"Rate":1}`}},
		{"rate missing number", map[string]string{"PriceRate": `[{"Rate":"lots","RateType":"hourly"}]`}},
		{"slot missing date", map[string]string{"DateSlot": `[{"StartTime":"09:00"}]`}},
		{"image bad list", map[string]string{"image": `[1,2]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseStableUpdate(tt.fields); err == nil {
				t.Fatalf("expected error for %v", tt.fields)
			}
		})
	}
}

func TestParseImageList(t *testing.T) {
	images, err := parseImageList(`["a.jpg","b.jpg"]`)
	if err != nil {
		t.Fatalf("array form failed: %v", err)
	}
	if len(images) != 2 || images[0] != "a.jpg" {
		t.Fatalf("unexpected images: %v", images)
	}

	single, err := parseImageList("c.jpg")
	if err != nil {
		t.Fatalf("single form failed: %v", err)
	}
	if len(single) != 1 || single[0] != "c.jpg" {
		t.Fatalf("unexpected single image: %v", single)
	}
}
