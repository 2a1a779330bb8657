// Package cart keeps one shopping cart per signed-in owner for the lifetime of the process.
package cart

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"gymdesk/internal/domain/sale"
)

// View is a cart with its derived totals.
type View struct {
	Lines     []sale.Line     `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	TaxTotal  decimal.Decimal `json:"taxTotal"`
	ItemCount int             `json:"itemCount"`
}

// ViewOf derives the totals of c.
func ViewOf(c sale.Cart) View {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	lines := c.Lines
	if lines == nil {
		lines = []sale.Line{}
	}
	return View{Lines: lines, Total: c.Total(), TaxTotal: c.TaxTotal(), ItemCount: n}
}

// Registry maps owner ids to carts. Safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*sale.Cart
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{carts: map[string]*sale.Cart{}}
}

// Get returns a copy of owner's cart; unknown owners have an empty cart.
func (r *Registry) Get(owner string) sale.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[owner]
	if !ok {
		return sale.Cart{}
	}
	return sale.Cart{Lines: slices.Clone(c.Lines)}
}

// Update applies fn to owner's cart under the lock.
// POST: on error the cart is left unchanged
func (r *Registry) Update(owner string, fn func(c *sale.Cart) error) (sale.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.carts[owner]
	if !ok {
		cur = &sale.Cart{}
	}
	next := sale.Cart{Lines: slices.Clone(cur.Lines)}
	if err := fn(&next); err != nil {
		return sale.Cart{Lines: slices.Clone(cur.Lines)}, err
	}
	if next.IsEmpty() {
		delete(r.carts, owner)
	} else {
		r.carts[owner] = &next
	}
	return sale.Cart{Lines: slices.Clone(next.Lines)}, nil
}

// Clear empties owner's cart.
func (r *Registry) Clear(owner string) {
	r.mu.Lock()
	delete(r.carts, owner)
	r.mu.Unlock()
}
