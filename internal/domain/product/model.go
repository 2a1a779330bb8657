package product

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
)

// Category constants
const (
	CategoryMerchandise = "merchandise"
	CategoryRental      = "rental"
	CategorySupplement  = "supplement"
	CategoryService     = "service"
	CategoryFood        = "food"
)

// Categories lists the valid product categories.
var Categories = []string{CategoryMerchandise, CategoryRental, CategorySupplement, CategoryService, CategoryFood}

// Status constants
const (
	StatusActive       = "active"
	StatusDiscontinued = "discontinued"
)

// Statuses lists the valid product statuses.
var Statuses = []string{StatusActive, StatusDiscontinued}

// DefaultTaxRate applies when a product is created without one.
var DefaultTaxRate = decimal.RequireFromString("0.1")

// Domain errors
var (
	ErrEmptyName          = errors.New("product name cannot be empty")
	ErrInvalidPrice       = errors.New("price cannot be negative")
	ErrInvalidCategory    = errors.New("category must be one of: merchandise, rental, supplement, service, food")
	ErrInvalidTaxRate     = errors.New("tax rate must be between 0 and 1")
	ErrNegativeStock      = errors.New("stock quantity cannot be negative")
	ErrInvalidStatus      = errors.New("status must be 'active' or 'discontinued'")
	ErrNameTooLong        = errors.New("product name cannot exceed 100 characters")
	ErrDescriptionTooLong = errors.New("description cannot exceed 1000 characters")
)

// Product is an item sold at the front desk.
// StockQuantity is nil for products that are not stock-tracked (services).
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	StockQuantity *int            `json:"stockQuantity,omitempty"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Status        string          `json:"status"`
}

// Validate checks if the Product has valid data.
// PRE: Product struct is populated
// POST: Returns error if validation fails, nil otherwise
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(p.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if !isValidCategory(p.Category) {
		return ErrInvalidCategory
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidTaxRate
	}
	if p.StockQuantity != nil && *p.StockQuantity < 0 {
		return ErrNegativeStock
	}
	if p.Status != StatusActive && p.Status != StatusDiscontinued {
		return ErrInvalidStatus
	}
	return nil
}

// ApplyDefaults fills the status and tax rate of a new product.
// POST: Status=active and TaxRate=DefaultTaxRate where previously unset
func (p *Product) ApplyDefaults() {
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.TaxRate.IsZero() {
		p.TaxRate = DefaultTaxRate
	}
}

// GetID returns the product id.
func (p *Product) GetID() string { return p.ID }

// SetID assigns the product id.
func (p *Product) SetID(id string) { p.ID = id }

// GetStatus returns the product status.
func (p *Product) GetStatus() string { return p.Status }

// SetStatus assigns the product status.
func (p *Product) SetStatus(status string) { p.Status = status }

// TracksStock reports whether the product has a stock quantity.
// INVARIANT: Product fields are not mutated
func (p Product) TracksStock() bool {
	return p.StockQuantity != nil
}

// CanFulfil reports whether qty units can be sold.
// Products without a stock quantity can always be sold.
// INVARIANT: Product fields are not mutated
func (p Product) CanFulfil(qty int) bool {
	if p.StockQuantity == nil {
		return true
	}
	return *p.StockQuantity >= qty
}

// IsSellable returns true for active products.
// INVARIANT: Product fields are not mutated
func (p Product) IsSellable() bool {
	return p.Status == StatusActive
}

// Stock returns a pointer to n, for building stock-tracked products.
func Stock(n int) *int {
	return &n
}

// Seeds returns the default front-desk catalog.
func Seeds() []Product {
	tax := DefaultTaxRate
	return []Product{
		{Name: "Protein Shake", Price: decimal.RequireFromString("5.99"), Category: CategorySupplement, Description: "Delicious protein shake with 25g of protein", StockQuantity: Stock(50), TaxRate: tax, Status: StatusActive},
		{Name: "Gym Towel", Price: decimal.RequireFromString("12.99"), Category: CategoryMerchandise, Description: "High-quality gym towel with gym logo", StockQuantity: Stock(30), TaxRate: tax, Status: StatusActive},
		{Name: "Padlock", Price: decimal.RequireFromString("8.99"), Category: CategoryMerchandise, Description: "Secure padlock for lockers", StockQuantity: Stock(20), TaxRate: tax, Status: StatusActive},
		{Name: "Towel Rental", Price: decimal.RequireFromString("2.99"), Category: CategoryRental, Description: "Rent a clean towel for your workout", StockQuantity: Stock(100), TaxRate: tax, Status: StatusActive},
		{Name: "Energy Drink", Price: decimal.RequireFromString("3.99"), Category: CategoryFood, Description: "Sugar-free energy drink", StockQuantity: Stock(40), TaxRate: tax, Status: StatusActive},
		{Name: "Gym Water Bottle", Price: decimal.RequireFromString("15.99"), Category: CategoryMerchandise, Description: "24oz stainless steel water bottle with gym logo", StockQuantity: Stock(25), TaxRate: tax, Status: StatusActive},
		{Name: "Personal Training (1 hr)", Price: decimal.RequireFromString("65.00"), Category: CategoryService, Description: "1-hour personal training session", TaxRate: tax, Status: StatusActive},
	}
}

func isValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
