package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/domain/email"
	"gymdesk/internal/domain/product"
	"gymdesk/internal/domain/sale"
)

// CartStore holds carts by owner.
type CartStore interface {
	Get(owner string) sale.Cart
	Update(owner string, fn func(c *sale.Cart) error) (sale.Cart, error)
}

// ProductReader looks up products.
type ProductReader interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
}

// SaleRecorder persists a sale together with its stock decrement.
type SaleRecorder interface {
	Checkout(ctx context.Context, s sale.Sale) error
}

// CheckoutInput carries input for Checkout.
type CheckoutInput struct {
	Owner         string `json:"-"`
	AccountID     string `json:"-"`
	ReceiptTo     string `json:"-"`
	PaymentMethod string `json:"paymentMethod" schema:"paymentMethod"`
	PayerName     string `json:"memberName" schema:"memberName"`
}

// CheckoutResult is the completed sale and what happened to its receipt.
type CheckoutResult struct {
	Sale    sale.Sale `json:"sale"`
	Receipt *Delivery `json:"receipt,omitempty"`
}

// CheckoutDeps holds dependencies for Checkout.
type CheckoutDeps struct {
	Carts    CartStore
	Products ProductReader
	Sales    SaleRecorder
	Mail     MessageDeliverer
	Now      func() time.Time
	NewID    func() string
}

// ExecuteCheckout turns the owner's cart into a sale.
// PRE: Owner identifies the cart
// POST: on success the sale is stored, stock is decremented and the sold lines leave the cart
// INVARIANT: a rejected checkout leaves the cart and stock untouched
func ExecuteCheckout(ctx context.Context, input CheckoutInput, deps CheckoutDeps) (CheckoutResult, error) {
	cart := deps.Carts.Get(input.Owner)
	if cart.IsEmpty() {
		return CheckoutResult{}, sale.ErrEmptyCart
	}
	if err := checkStock(ctx, cart, deps.Products); err != nil {
		return CheckoutResult{}, err
	}

	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	s, err := sale.Build(cart, sale.Checkout{
		PaymentMethod: input.PaymentMethod,
		PayerName:     input.PayerName,
		AccountID:     input.AccountID,
		Now:           clock(deps.Now).UTC(),
		NewID:         newID,
	})
	if err != nil {
		return CheckoutResult{}, err
	}
	if err := deps.Sales.Checkout(ctx, s); err != nil {
		return CheckoutResult{}, err
	}
	// only what was sold; lines added meanwhile stay for the next checkout
	if _, err := deps.Carts.Update(input.Owner, func(c *sale.Cart) error {
		c.Deduct(cart)
		return nil
	}); err != nil {
		return CheckoutResult{}, err
	}
	slog.Info("sale_event", "event", "checkout", "sale_id", s.ID, "total", s.Total.StringFixed(2), "items", s.ItemCount(), "payment", s.PaymentMethod)

	res := CheckoutResult{Sale: s}
	if input.ReceiptTo != "" && deps.Mail != nil {
		d, err := deps.Mail.Deliver(ctx, email.Receipt(input.ReceiptTo, s))
		if err != nil {
			slog.Error("email_event", "event", "receipt_lost", "sale_id", s.ID, "error", err)
		} else {
			res.Receipt = &d
		}
	}
	return res, nil
}

// checkStock validates every line against the current catalog.
func checkStock(ctx context.Context, cart sale.Cart, products ProductReader) error {
	for _, l := range cart.Lines {
		p, err := products.GetByID(ctx, l.ProductID)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", l.Name, sale.ErrProductUnavailable)
		}
		if err != nil {
			return err
		}
		if !p.IsSellable() {
			return fmt.Errorf("%s: %w", p.Name, sale.ErrProductUnavailable)
		}
		if !p.CanFulfil(l.Quantity) {
			return fmt.Errorf("%s has %d left: %w", p.Name, *p.StockQuantity, sale.ErrInsufficientStock)
		}
	}
	return nil
}
