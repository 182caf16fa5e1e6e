package engine

import "github.com/dishcovery/dishcovery/internal/models"

// CartLine snapshots a projected item at the moment it was (last) added,
// together with the chosen quantity. The price on the snapshot is the price
// the diner saw; it does not drift with later ticks.
type CartLine struct {
	Item     models.ProjectedMenuItem `json:"item"`
	Quantity int                      `json:"quantity"`
}

// Cart is the session-scoped ledger of chosen items. Lines are unique per
// item id and keep insertion order; quantity changes never reorder them. A
// cart lives for one browsing session against one restaurant and is not
// persisted here. The zero value is ready to use.
type Cart struct {
	lines []CartLine
	index map[string]int // item id -> position in lines
}

func NewCart() *Cart {
	return &Cart{index: make(map[string]int)}
}

// AddItem inserts a new line with quantity 1, or increments the existing
// line for the same item id. On increment the stored snapshot is replaced
// with the one passed in, so a re-add after a price tick is last write wins.
func (c *Cart) AddItem(item models.ProjectedMenuItem) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if pos, ok := c.index[item.ID]; ok {
		c.lines[pos].Item = item
		c.lines[pos].Quantity++
		return
	}
	c.index[item.ID] = len(c.lines)
	c.lines = append(c.lines, CartLine{Item: item, Quantity: 1})
}

// RemoveItem deletes the line entirely, whatever its quantity.
func (c *Cart) RemoveItem(itemID string) {
	pos, ok := c.index[itemID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:pos], c.lines[pos+1:]...)
	delete(c.index, itemID)
	for i := pos; i < len(c.lines); i++ {
		c.index[c.lines[i].Item.ID] = i
	}
}

// UpdateQuantity adds delta (positive or negative) to the line's quantity,
// floored at zero. A line at zero is removed; no zero-quantity lines
// survive any mutation.
func (c *Cart) UpdateQuantity(itemID string, delta int) {
	pos, ok := c.index[itemID]
	if !ok {
		return
	}
	quantity := c.lines[pos].Quantity + delta
	if quantity <= 0 {
		c.RemoveItem(itemID)
		return
	}
	c.lines[pos].Quantity = quantity
}

// QuantityOf returns the line's quantity, or 0 when the item is absent.
func (c *Cart) QuantityOf(itemID string) int {
	if pos, ok := c.index[itemID]; ok {
		return c.lines[pos].Quantity
	}
	return 0
}

// Total sums DynamicPrice times quantity across lines. The stored two
// decimal DynamicPrice is the source of truth per line; the final sum is
// rounded once to absorb binary float error.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, line := range c.lines {
		total += line.Item.DynamicPrice * float64(line.Quantity)
	}
	return roundPrice(total)
}

// Count is the total number of units across all lines, for the cart badge.
func (c *Cart) Count() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Lines returns the cart contents in insertion order. The slice is a copy;
// mutating it does not touch the cart.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Clear empties the cart, for session teardown or checkout.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
}
