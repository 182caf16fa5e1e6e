package engine

import (
	"math"
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 14, hour, minute, 0, 0, time.UTC)
}

func TestDynamicPriceKnownExamples(t *testing.T) {
	tests := []struct {
		name      string
		basePrice float64
		category  string
		now       time.Time
		want      float64
	}{
		// 1 + 0.10 + sin(13)*0.05 + sin(13)*0.03 = 1.1336 -> 11.34
		{"peak lunch hour", 10.00, "Main Course", at(13, 0), 11.34},
		// 1 - 0.15 + sin(2)*0.05 + sin(2)*0.03 = 0.9227 -> 9.23
		{"off-peak night", 10.00, "Main Course", at(2, 0), 9.23},
		// lunch example plus the 0.05 Specials markup
		{"specials markup", 10.00, "Specials", at(13, 0), 11.84},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DynamicPrice(tt.basePrice, tt.category, tt.now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DynamicPrice(%v, %q, %s) = %v, want %v",
					tt.basePrice, tt.category, tt.now.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestDynamicPriceClampInvariant(t *testing.T) {
	// The multiplier is clamped at 0.8, so across every hour and half-hour
	// interval the price stays at or above 80% of base (modulo the final
	// half-cent rounding).
	base := 12.50
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 15, 30, 45, 59} {
			price, err := DynamicPrice(base, "Desserts", at(hour, minute))
			if err != nil {
				t.Fatalf("unexpected error at %02d:%02d: %v", hour, minute, err)
			}
			if price < 0.8*base-0.005 {
				t.Errorf("price %v at %02d:%02d violates the 0.8 floor for base %v",
					price, hour, minute, base)
			}
		}
	}
}

func TestDynamicPriceDeterministic(t *testing.T) {
	now := at(19, 37)
	first, err := DynamicPrice(23.75, "Specials", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := DynamicPrice(23.75, "Specials", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("same inputs produced %v then %v", first, again)
		}
	}
}

func TestDynamicPriceRejectsNonPositiveBase(t *testing.T) {
	for _, base := range []float64{0, -0.01, -10} {
		if _, err := DynamicPrice(base, "Main Course", at(12, 0)); err == nil {
			t.Errorf("expected error for base price %v", base)
		}
	}
}

func TestDynamicPriceRoundsToCents(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		price, err := DynamicPrice(9.99, "Beverages", at(hour, 10))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cents := price * 100
		if math.Abs(cents-math.Round(cents)) > 1e-9 {
			t.Errorf("price %v at hour %d is not rounded to cents", price, hour)
		}
	}
}
