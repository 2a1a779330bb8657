package projections

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	saleStore "gymdesk/internal/adapters/storage/sale"
	"gymdesk/internal/domain/sale"
)

// SaleLister lists sales newest first.
type SaleLister interface {
	List(ctx context.Context, filter saleStore.ListFilter) ([]sale.Sale, error)
}

// Range names a reporting window.
type Range string

const (
	RangeDay     Range = "day"
	RangeWeek    Range = "week"
	RangeMonth   Range = "month"
	RangeQuarter Range = "quarter"
	RangeYear    Range = "year"
	RangeAll     Range = "all"
)

// OtherCategory collects revenue from items sold without a category.
const OtherCategory = "other"

// TopProductsLimit caps the revenue-by-product list.
const TopProductsLimit = 10

// ParseRange maps a query value to a Range. Unknown values select the current month.
func ParseRange(s string) Range {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case RangeDay, RangeWeek, RangeMonth, RangeQuarter, RangeYear, RangeAll:
		return r
	}
	return RangeMonth
}

// Bounds returns the inclusive start and exclusive end of r around now.
// Weeks start on Sunday; quarter and year are the trailing 90 and 365 days.
// POST: RangeAll returns two zero times
func (r Range) Bounds(now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := day.AddDate(0, 0, 1)
	switch r {
	case RangeDay:
		return day, tomorrow
	case RangeWeek:
		start := day.AddDate(0, 0, -int(day.Weekday()))
		return start, start.AddDate(0, 0, 7)
	case RangeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	case RangeQuarter:
		return day.AddDate(0, 0, -90), tomorrow
	case RangeYear:
		return day.AddDate(0, 0, -365), tomorrow
	}
	return time.Time{}, time.Time{}
}

// SalesInRange returns the sales inside r, newest first.
func SalesInRange(ctx context.Context, sales SaleLister, r Range, now time.Time) ([]sale.Sale, error) {
	start, end := r.Bounds(now)
	list, err := sales.List(ctx, saleStore.ListFilter{Since: start})
	if err != nil {
		return nil, err
	}
	if end.IsZero() {
		return list, nil
	}
	out := list[:0:0]
	for _, s := range list {
		if s.Timestamp.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

// SalesHistoryQuery narrows and orders the sales history.
type SalesHistoryQuery struct {
	Search string    `schema:"q"`
	From   time.Time `schema:"-"`
	To     time.Time `schema:"-"`
	Sort   string    `schema:"sort"` // date or amount
	Dir    string    `schema:"dir"`  // asc or desc
}

// QuerySalesHistory lists sales matching q.
// POST: default order is newest first
// INVARIANT: search matches payer name, sale id or payment method, case-insensitively
func QuerySalesHistory(ctx context.Context, q SalesHistoryQuery, sales SaleLister) ([]sale.Sale, error) {
	list, err := sales.List(ctx, saleStore.ListFilter{Since: q.From})
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]sale.Sale, 0, len(list))
	for _, s := range list {
		if !q.To.IsZero() && s.Timestamp.After(q.To) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(s.MemberName), needle) &&
			!strings.Contains(strings.ToLower(s.ID), needle) &&
			!strings.Contains(strings.ToLower(s.PaymentMethod), needle) {
			continue
		}
		out = append(out, s)
	}

	asc := q.Dir == "asc"
	less := func(i, j int) bool {
		if q.Sort == "amount" {
			if asc {
				return out[i].Total.LessThan(out[j].Total)
			}
			return out[i].Total.GreaterThan(out[j].Total)
		}
		if asc {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	}
	sort.SliceStable(out, less)
	return out, nil
}

// Amount is a labelled money total.
type Amount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// ProductRevenue is one product's share of the period.
type ProductRevenue struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// SalesReport summarises a reporting window.
type SalesReport struct {
	Range             Range            `json:"range"`
	From              time.Time        `json:"from,omitzero"`
	To                time.Time        `json:"to,omitzero"`
	Transactions      int              `json:"transactions"`
	ItemsSold         int              `json:"itemsSold"`
	TotalRevenue      decimal.Decimal  `json:"totalRevenue"`
	TaxTotal          decimal.Decimal  `json:"taxTotal"`
	RevenueByCategory []Amount         `json:"revenueByCategory"`
	TopProducts       []ProductRevenue `json:"topProducts"`
}

// QuerySalesReport aggregates sales inside r.
// POST: RevenueByCategory and TopProducts are ordered by amount, largest first
// POST: TopProducts holds at most TopProductsLimit entries
func QuerySalesReport(ctx context.Context, r Range, now time.Time, sales SaleLister) (SalesReport, error) {
	list, err := SalesInRange(ctx, sales, r, now)
	if err != nil {
		return SalesReport{}, err
	}
	return BuildSalesReport(r, now, list), nil
}

// BuildSalesReport aggregates an already-filtered list of sales.
func BuildSalesReport(r Range, now time.Time, list []sale.Sale) SalesReport {
	from, to := r.Bounds(now)
	rep := SalesReport{
		Range:        r,
		From:         from,
		To:           to,
		Transactions: len(list),
		TotalRevenue: decimal.Zero,
		TaxTotal:     decimal.Zero,
	}
	byCategory := map[string]decimal.Decimal{}
	byProduct := map[string]*ProductRevenue{}
	for _, s := range list {
		rep.TotalRevenue = rep.TotalRevenue.Add(s.Total)
		rep.TaxTotal = rep.TaxTotal.Add(s.TaxAmount)
		for _, it := range s.Items {
			rep.ItemsSold += it.Quantity
			cat := it.Category
			if cat == "" {
				cat = OtherCategory
			}
			byCategory[cat] = byCategory[cat].Add(it.Subtotal)

			pr, ok := byProduct[it.ProductID]
			if !ok {
				pr = &ProductRevenue{ProductID: it.ProductID, Name: it.ProductName, Amount: decimal.Zero}
				byProduct[it.ProductID] = pr
			}
			pr.Quantity += it.Quantity
			pr.Amount = pr.Amount.Add(it.Subtotal)
		}
	}

	rep.RevenueByCategory = make([]Amount, 0, len(byCategory))
	for name, amt := range byCategory {
		rep.RevenueByCategory = append(rep.RevenueByCategory, Amount{Name: name, Amount: amt})
	}
	sort.Slice(rep.RevenueByCategory, func(i, j int) bool {
		a, b := rep.RevenueByCategory[i], rep.RevenueByCategory[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Name < b.Name
	})

	rep.TopProducts = make([]ProductRevenue, 0, len(byProduct))
	for _, pr := range byProduct {
		rep.TopProducts = append(rep.TopProducts, *pr)
	}
	sort.Slice(rep.TopProducts, func(i, j int) bool {
		a, b := rep.TopProducts[i], rep.TopProducts[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Name < b.Name
	})
	if len(rep.TopProducts) > TopProductsLimit {
		rep.TopProducts = rep.TopProducts[:TopProductsLimit]
	}
	return rep
}

// CSVHeader is the first row of a sales export.
var CSVHeader = []string{"Transaction ID", "Date", "Time", "Member", "Payment Method", "Items", "Total Amount", "Tax Amount"}

// WriteSalesCSV writes one row per sale after CSVHeader.
// Sales without a payer name are exported as "Guest"; times are rendered in loc.
func WriteSalesCSV(w io.Writer, list []sale.Sale, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, s := range list {
		ts := s.Timestamp.In(loc)
		member := s.MemberName
		if member == "" {
			member = "Guest"
		}
		row := []string{
			s.ID,
			ts.Format("2006-01-02"),
			ts.Format("15:04:05"),
			member,
			s.PaymentMethod,
			strconv.Itoa(s.ItemCount()),
			s.Total.StringFixed(2),
			s.TaxAmount.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write sale %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename names a CSV export for r created at now.
func ExportFilename(r Range, now time.Time) string {
	return fmt.Sprintf("sales_report_%s_%s.csv", r, now.Format("2006-01-02"))
}
