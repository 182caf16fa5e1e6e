package engine

import (
	"testing"

	"github.com/dishcovery/dishcovery/internal/models"
)

func projectedItem(id string, dynamicPrice float64) models.ProjectedMenuItem {
	return models.ProjectedMenuItem{
		MenuItem: models.MenuItem{
			ID:       id,
			Name:     id,
			Price:    dynamicPrice,
			Category: "Main Course",
			Status:   models.ItemStatusActive,
		},
		DynamicPrice:  dynamicPrice,
		OriginalPrice: dynamicPrice,
	}
}

func assertNoZeroLines(t *testing.T, cart *Cart) {
	t.Helper()
	for _, line := range cart.Lines() {
		if line.Quantity <= 0 {
			t.Fatalf("line %s has quantity %d", line.Item.ID, line.Quantity)
		}
	}
}

func TestCartAddMergesSameItem(t *testing.T) {
	cart := NewCart()
	cart.AddItem(projectedItem("biryani", 14.20))
	cart.AddItem(projectedItem("biryani", 14.20))

	if got := len(cart.Lines()); got != 1 {
		t.Fatalf("expected one line, got %d", got)
	}
	if got := cart.QuantityOf("biryani"); got != 2 {
		t.Errorf("quantity = %d, want 2", got)
	}
}

func TestCartReAddRefreshesSnapshot(t *testing.T) {
	cart := NewCart()
	cart.AddItem(projectedItem("biryani", 14.20))

	// A tick later the projection carries a new price; re-adding takes it.
	repriced := projectedItem("biryani", 13.90)
	cart.AddItem(repriced)

	lines := cart.Lines()
	if lines[0].Item.DynamicPrice != 13.90 {
		t.Errorf("snapshot price = %v, want the re-added 13.90", lines[0].Item.DynamicPrice)
	}
	if got := cart.Total(); got != 27.80 {
		t.Errorf("total = %v, want both units at the refreshed price", got)
	}
}

func TestCartRemoveItem(t *testing.T) {
	cart := NewCart()
	cart.AddItem(projectedItem("naan", 3.00))
	cart.AddItem(projectedItem("naan", 3.00))
	cart.AddItem(projectedItem("raita", 2.50))

	cart.RemoveItem("naan")

	if got := cart.QuantityOf("naan"); got != 0 {
		t.Errorf("removed item still has quantity %d", got)
	}
	if got := cart.QuantityOf("raita"); got != 1 {
		t.Errorf("unrelated line disturbed, quantity = %d", got)
	}
	cart.RemoveItem("never-added") // no-op
	assertNoZeroLines(t, cart)
}

func TestCartUpdateQuantity(t *testing.T) {
	cart := NewCart()
	cart.AddItem(projectedItem("dosa", 8.00))

	cart.UpdateQuantity("dosa", 2)
	if got := cart.QuantityOf("dosa"); got != 3 {
		t.Errorf("quantity = %d, want 3", got)
	}

	cart.UpdateQuantity("dosa", -1)
	if got := cart.QuantityOf("dosa"); got != 2 {
		t.Errorf("quantity = %d, want 2", got)
	}

	// Driving the quantity to (or below) zero removes the line.
	cart.UpdateQuantity("dosa", -5)
	if got := cart.QuantityOf("dosa"); got != 0 {
		t.Errorf("quantity = %d, want 0 after floor", got)
	}
	if got := len(cart.Lines()); got != 0 {
		t.Errorf("zero-quantity line retained: %d lines", got)
	}
	assertNoZeroLines(t, cart)
}

func TestCartTotal(t *testing.T) {
	cart := NewCart()
	cart.AddItem(projectedItem("thali", 11.34))
	cart.UpdateQuantity("thali", 1) // qty 2
	cart.AddItem(projectedItem("chai", 5.00))

	// Per-line stored prices are already rounded; 11.34*2 + 5.00.
	if got := cart.Total(); got != 27.68 {
		t.Errorf("total = %v, want 27.68", got)
	}

	cart.Clear()
	if got := cart.Total(); got != 0 {
		t.Errorf("total after clear = %v, want 0", got)
	}
}

func TestCartInsertionOrderSurvivesMutation(t *testing.T) {
	cart := NewCart()
	cart.AddItem(projectedItem("first", 1.00))
	cart.AddItem(projectedItem("second", 2.00))
	cart.AddItem(projectedItem("third", 3.00))

	// Bumping a later line must not reorder, and removing the middle line
	// closes the gap without disturbing relative order.
	cart.UpdateQuantity("third", 4)
	cart.RemoveItem("second")
	cart.AddItem(projectedItem("fourth", 4.00))

	want := []string{"first", "third", "fourth"}
	lines := cart.Lines()
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, id := range want {
		if lines[i].Item.ID != id {
			t.Errorf("position %d: got %s, want %s", i, lines[i].Item.ID, id)
		}
	}
	if got := cart.Count(); got != 7 {
		t.Errorf("count = %d, want 7", got)
	}
	assertNoZeroLines(t, cart)
}

func TestCartZeroValueUsable(t *testing.T) {
	var cart Cart
	cart.AddItem(projectedItem("idli", 4.00))

	if got := cart.QuantityOf("idli"); got != 1 {
		t.Errorf("quantity = %d, want 1", got)
	}
	if got := cart.Total(); got != 4.00 {
		t.Errorf("total = %v, want 4.00", got)
	}
	cart.RemoveItem("idli")
	if got := len(cart.Lines()); got != 0 {
		t.Errorf("expected empty cart, got %d lines", got)
	}
}

func TestCartQuantityOfAbsentItem(t *testing.T) {
	cart := NewCart()
	if got := cart.QuantityOf("ghost"); got != 0 {
		t.Errorf("QuantityOf on empty cart = %d, want 0", got)
	}
}
