package sale

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gymdesk/internal/domain/product"
)

// Payment method constants
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentMember = "member"
)

// PaymentMethods lists the accepted payment methods.
var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentMember}

// MaxPayerNameLength bounds the free-text payer name.
const MaxPayerNameLength = 100

// Domain errors
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("payment method must be 'cash', 'card', or 'member'")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrProductUnavailable   = errors.New("product is not available for sale")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
)

// Line is one product in a cart.
type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Tax returns UnitPrice × Quantity × TaxRate.
func (l Line) Tax() decimal.Decimal {
	return l.Subtotal().Mul(l.TaxRate)
}

// Cart is an ordered list of lines, at most one per product.
// INVARIANT: every line has Quantity >= 1
type Cart struct {
	Lines []Line `json:"lines"`
}

// AddLine increments the quantity of p's line or appends a new line with quantity 1.
// PRE: p is sellable
// POST: exactly one line for p.ID exists
func (c *Cart) AddLine(p product.Product) error {
	if !p.IsSellable() {
		return ErrProductUnavailable
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity++
			return nil
		}
	}
	c.Lines = append(c.Lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		UnitPrice: p.Price,
		TaxRate:   p.TaxRate,
		Quantity:  1,
	})
	return nil
}

// SetQuantity replaces the quantity of a line. qty <= 0 removes it.
// Unknown product ids are ignored.
func (c *Cart) SetQuantity(productID string, qty int) {
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}
		if qty <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity = qty
		}
		return
	}
}

// Quantity returns the quantity of productID, or 0.
func (c Cart) Quantity(productID string) int {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// Total returns the sum of line subtotals.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// TaxTotal returns the sum of line taxes rounded to cents.
func (c Cart) TaxTotal() decimal.Decimal {
	tax := decimal.Zero
	for _, l := range c.Lines {
		tax = tax.Add(l.Tax())
	}
	return tax.Round(2)
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Deduct takes the quantities in sold out of c. Lines added after sold was
// taken survive, as do any units beyond what was sold.
// POST: no line has a quantity <= 0
func (c *Cart) Deduct(sold Cart) {
	for _, l := range slices.Clone(sold.Lines) {
		c.SetQuantity(l.ProductID, c.Quantity(l.ProductID)-l.Quantity)
	}
}

// Item is a sold line, with product details frozen at sale time.
type Item struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"saleId"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Sale is a completed checkout.
type Sale struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	AccountID     string          `json:"accountId,omitempty"`
	MemberName    string          `json:"memberName"`
	PaymentMethod string          `json:"paymentMethod"`
	Total         decimal.Decimal `json:"totalAmount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Items         []Item          `json:"items"`
}

// Checkout describes who is paying and how.
type Checkout struct {
	PaymentMethod string
	PayerName     string
	AccountID     string
	Now           time.Time
	NewID         func() string
}

// Build turns a cart into a sale.
// PRE: NewID is set
// POST: Total equals cart.Total(); one Item per cart line in cart order
func Build(cart Cart, co Checkout) (Sale, error) {
	if cart.IsEmpty() {
		return Sale{}, ErrEmptyCart
	}
	if !IsValidPaymentMethod(co.PaymentMethod) {
		return Sale{}, ErrInvalidPaymentMethod
	}
	name := strings.TrimSpace(co.PayerName)
	if len(name) > MaxPayerNameLength {
		name = name[:MaxPayerNameLength]
	}
	s := Sale{
		ID:            co.NewID(),
		Timestamp:     co.Now,
		AccountID:     co.AccountID,
		MemberName:    name,
		PaymentMethod: co.PaymentMethod,
		Total:         cart.Total(),
		TaxAmount:     cart.TaxTotal(),
	}
	for _, l := range cart.Lines {
		if l.Quantity < 1 {
			return Sale{}, ErrInvalidQuantity
		}
		s.Items = append(s.Items, Item{
			ID:          co.NewID(),
			SaleID:      s.ID,
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Category:    l.Category,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		})
	}
	return s, nil
}

// ItemCount returns the number of units sold.
func (s Sale) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// IsValidPaymentMethod reports whether m is accepted.
func IsValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}
