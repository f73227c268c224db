package trade

import (
	"github.com/google/uuid"
)

// CartLine is one product in a buyer's cart. Quantity is always positive.
type CartLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// Cart is a buyer's cart. Lines keep insertion order and are unique by product.
//
// Every transition below is pure: it returns a new Cart and never modifies the
// receiver, so callers can hold on to the previous value.
type Cart struct {
	Lines []CartLine
}

// EmptyCart returns a cart without lines
func EmptyCart() Cart {
	return Cart{Lines: []CartLine{}}
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Quantity returns the quantity for a product, 0 if absent
func (c Cart) Quantity(productID uuid.UUID) int {
	if i := c.indexOf(productID); i >= 0 {
		return c.Lines[i].Quantity
	}
	return 0
}

// ItemCount returns the sum of all line quantities
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// ProductIDs returns the product of every line in cart order
func (c Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Lines))
	for i, l := range c.Lines {
		ids[i] = l.ProductID
	}
	return ids
}

// AddItem increments the line for productID by one, inserting it with quantity 1 if absent
func AddItem(c Cart, productID uuid.UUID) Cart {
	next := c.clone()
	if i := next.indexOf(productID); i >= 0 {
		next.Lines[i].Quantity++
		return next
	}
	next.Lines = append(next.Lines, CartLine{ProductID: productID, Quantity: 1})
	return next
}

// SubtractItem decrements the line for productID by one and removes it when it would reach zero.
// A missing line is a no-op.
func SubtractItem(c Cart, productID uuid.UUID) Cart {
	i := c.indexOf(productID)
	if i < 0 {
		return c.clone()
	}
	if c.Lines[i].Quantity <= 1 {
		return RemoveItem(c, productID)
	}
	next := c.clone()
	next.Lines[i].Quantity--
	return next
}

// SetItem sets the line for productID to exactly quantity.
// A quantity of zero or less removes the line.
func SetItem(c Cart, productID uuid.UUID, quantity int) Cart {
	if quantity <= 0 {
		return RemoveItem(c, productID)
	}
	next := c.clone()
	if i := next.indexOf(productID); i >= 0 {
		next.Lines[i].Quantity = quantity
		return next
	}
	next.Lines = append(next.Lines, CartLine{ProductID: productID, Quantity: quantity})
	return next
}

// RemoveItem deletes the line for productID if present
func RemoveItem(c Cart, productID uuid.UUID) Cart {
	next := Cart{Lines: make([]CartLine, 0, len(c.Lines))}
	for _, l := range c.Lines {
		if l.ProductID != productID {
			next.Lines = append(next.Lines, l)
		}
	}
	return next
}

// Clear returns an empty cart
func Clear(Cart) Cart {
	return EmptyCart()
}

func (c Cart) indexOf(productID uuid.UUID) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}
