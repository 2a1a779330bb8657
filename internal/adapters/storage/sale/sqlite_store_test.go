package sale_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productStore "gymdesk/internal/adapters/storage/product"
	saleStore "gymdesk/internal/adapters/storage/sale"
	"gymdesk/internal/adapters/storage/storetest"
	"gymdesk/internal/domain/product"
	"gymdesk/internal/domain/sale"
)

type fixture struct {
	products *productStore.SQLiteStore
	sales    *saleStore.SQLiteStore
	ids      int
}

func newFixture(t *testing.T) *fixture {
	db := storetest.Open(t)
	f := &fixture{products: productStore.NewSQLiteStore(db), sales: saleStore.NewSQLiteStore(db)}
	ctx := context.Background()
	require.NoError(t, f.products.Save(ctx, product.Product{ID: "towel", Name: "Gym Towel", Price: decimal.RequireFromString("12.99"), Category: product.CategoryMerchandise, StockQuantity: product.Stock(2), TaxRate: product.DefaultTaxRate, Status: product.StatusActive}))
	require.NoError(t, f.products.Save(ctx, product.Product{ID: "pt", Name: "Personal Training (1 hr)", Price: decimal.RequireFromString("65.00"), Category: product.CategoryService, TaxRate: product.DefaultTaxRate, Status: product.StatusActive}))
	return f
}

func (f *fixture) build(t *testing.T, at time.Time, lines map[string]int) sale.Sale {
	t.Helper()
	var c sale.Cart
	for _, id := range []string{"towel", "pt"} {
		p, err := f.products.GetByID(context.Background(), id)
		require.NoError(t, err)
		for i := 0; i < lines[id]; i++ {
			require.NoError(t, c.AddLine(p))
		}
	}
	s, err := sale.Build(c, sale.Checkout{PaymentMethod: sale.PaymentCash, Now: at, NewID: func() string {
		f.ids++
		return fmt.Sprintf("id-%03d", f.ids)
	}})
	require.NoError(t, err)
	return s
}

func TestCheckout_DecrementsTrackedStockOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	s := f.build(t, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC), map[string]int{"towel": 2, "pt": 3})
	require.NoError(t, f.sales.Checkout(ctx, s))

	towel, _ := f.products.GetByID(ctx, "towel")
	assert.Equal(t, 0, *towel.StockQuantity)
	pt, _ := f.products.GetByID(ctx, "pt")
	assert.Nil(t, pt.StockQuantity)

	got, err := f.sales.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("220.98")), "total %s", got.Total)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "towel", got.Items[0].ProductID)
	assert.True(t, got.Timestamp.Equal(s.Timestamp))
}

func TestCheckout_InsufficientStockWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	s := f.build(t, time.Now(), map[string]int{"pt": 1, "towel": 2})
	s.Items[0].Quantity = 3 // towel line, more than the 2 in stock

	err := f.sales.Checkout(ctx, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sale.ErrInsufficientStock))

	towel, _ := f.products.GetByID(ctx, "towel")
	assert.Equal(t, 2, *towel.StockQuantity)
	list, err := f.sales.List(ctx, saleStore.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_NewestFirstAndSince(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	older := f.build(t, day.Add(-48*time.Hour), map[string]int{"pt": 1})
	newer := f.build(t, day.Add(2*time.Hour), map[string]int{"pt": 1})
	require.NoError(t, f.sales.Checkout(ctx, older))
	require.NoError(t, f.sales.Checkout(ctx, newer))

	all, err := f.sales.List(ctx, saleStore.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)

	recent, err := f.sales.List(ctx, saleStore.ListFilter{Since: day})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, newer.ID, recent[0].ID)
	assert.Len(t, recent[0].Items, 1)
}
