package sale_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gymdesk/internal/domain/product"
	"gymdesk/internal/domain/sale"
)

func prod(id, price string) product.Product {
	return product.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		Category: product.CategoryMerchandise,
		TaxRate:  product.DefaultTaxRate,
		Status:   product.StatusActive,
	}
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// TestCartTotal checks 5.99×2 + 2.99×1 = 14.97.
func TestCartTotal(t *testing.T) {
	var c sale.Cart
	shake, towel := prod("p1", "5.99"), prod("p2", "2.99")
	for _, p := range []product.Product{shake, shake, towel} {
		if err := c.AddLine(p); err != nil {
			t.Fatalf("AddLine: %v", err)
		}
	}
	if len(c.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(c.Lines))
	}
	if c.Quantity("p1") != 2 {
		t.Errorf("p1 quantity = %d, want 2", c.Quantity("p1"))
	}
	if !c.Total().Equal(decimal.RequireFromString("14.97")) {
		t.Errorf("total = %s, want 14.97", c.Total())
	}
	if !c.TaxTotal().Equal(decimal.RequireFromString("1.50")) {
		t.Errorf("tax = %s, want 1.50", c.TaxTotal())
	}
}

// TestSetQuantity removes lines at zero or below.
func TestSetQuantity(t *testing.T) {
	var c sale.Cart
	_ = c.AddLine(prod("p1", "1.00"))
	_ = c.AddLine(prod("p2", "2.00"))

	c.SetQuantity("p1", 4)
	if c.Quantity("p1") != 4 {
		t.Errorf("p1 quantity = %d, want 4", c.Quantity("p1"))
	}
	c.SetQuantity("p1", 0)
	if c.Quantity("p1") != 0 || len(c.Lines) != 1 {
		t.Errorf("p1 should be removed, lines = %+v", c.Lines)
	}
	c.SetQuantity("p2", -3)
	if !c.IsEmpty() {
		t.Errorf("cart should be empty, lines = %+v", c.Lines)
	}
	c.SetQuantity("missing", 2)
	if !c.IsEmpty() {
		t.Error("unknown product should be ignored")
	}
}

// TestDeduct removes what was sold and keeps what arrived afterwards.
func TestDeduct(t *testing.T) {
	var sold sale.Cart
	_ = sold.AddLine(prod("p1", "1.00"))
	_ = sold.AddLine(prod("p1", "1.00"))

	live := sale.Cart{Lines: append([]sale.Line(nil), sold.Lines...)}
	_ = live.AddLine(prod("p1", "1.00"))
	_ = live.AddLine(prod("p2", "2.00"))

	live.Deduct(sold)
	if live.Quantity("p1") != 1 || live.Quantity("p2") != 1 || len(live.Lines) != 2 {
		t.Errorf("after deduct lines = %+v, want p1x1 and p2x1", live.Lines)
	}
	live.Deduct(live)
	if !live.IsEmpty() {
		t.Errorf("deducting everything should empty the cart, lines = %+v", live.Lines)
	}
}

// TestAddLineRejectsDiscontinued keeps discontinued products out of carts.
func TestAddLineRejectsDiscontinued(t *testing.T) {
	var c sale.Cart
	p := prod("p1", "1.00")
	p.Status = product.StatusDiscontinued
	if err := c.AddLine(p); err != sale.ErrProductUnavailable {
		t.Errorf("got %v, want ErrProductUnavailable", err)
	}
}

// TestBuild converts a cart into a sale.
func TestBuild(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	if _, err := sale.Build(sale.Cart{}, sale.Checkout{PaymentMethod: sale.PaymentCash, Now: now, NewID: seqIDs()}); err != sale.ErrEmptyCart {
		t.Errorf("empty cart: got %v, want ErrEmptyCart", err)
	}

	var c sale.Cart
	_ = c.AddLine(prod("p1", "5.99"))
	_ = c.AddLine(prod("p1", "5.99"))
	_ = c.AddLine(prod("p2", "2.99"))

	if _, err := sale.Build(c, sale.Checkout{PaymentMethod: "cheque", Now: now, NewID: seqIDs()}); err != sale.ErrInvalidPaymentMethod {
		t.Errorf("bad method: got %v, want ErrInvalidPaymentMethod", err)
	}

	s, err := sale.Build(c, sale.Checkout{PaymentMethod: sale.PaymentCard, PayerName: " Ana ", Now: now, NewID: seqIDs()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.ID != "id-1" || s.MemberName != "Ana" || s.PaymentMethod != sale.PaymentCard {
		t.Errorf("unexpected sale header: %+v", s)
	}
	if !s.Total.Equal(decimal.RequireFromString("14.97")) {
		t.Errorf("total = %s, want 14.97", s.Total)
	}
	if len(s.Items) != 2 || s.Items[0].SaleID != s.ID || s.Items[0].Quantity != 2 {
		t.Errorf("unexpected items: %+v", s.Items)
	}
	if !s.Items[0].Subtotal.Equal(decimal.RequireFromString("11.98")) {
		t.Errorf("first subtotal = %s, want 11.98", s.Items[0].Subtotal)
	}
	if s.ItemCount() != 3 {
		t.Errorf("item count = %d, want 3", s.ItemCount())
	}
}
