package sale

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/sale"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new sale store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Checkout inserts the sale and its items and decrements tracked stock.
// PRE: s was built by domain.Build
// POST: on success every row is written; on error nothing is
// INVARIANT: no tracked stock quantity goes below zero
func (s *SQLiteStore) Checkout(ctx context.Context, sale domain.Sale) error {
	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, it := range sale.Items {
			if err := decrementStock(ctx, tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO sale (id, timestamp, account_id, member_name, payment_method, total_amount, tax_amount)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sale.ID, storage.FormatTime(sale.Timestamp), sale.AccountID, sale.MemberName, sale.PaymentMethod,
			sale.Total.String(), sale.TaxAmount.String(),
		)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		for _, it := range sale.Items {
			_, err := tx.ExecContext(ctx, `INSERT INTO sale_item (id, sale_id, product_id, product_name, category, quantity, unit_price, subtotal)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				it.ID, sale.ID, it.ProductID, it.ProductName, it.Category, it.Quantity, it.UnitPrice.String(), it.Subtotal.String(),
			)
			if err != nil {
				return fmt.Errorf("insert sale item: %w", err)
			}
		}
		return nil
	})
}

// decrementStock re-checks stock inside the transaction. Untracked products are left alone.
func decrementStock(ctx context.Context, tx *sql.Tx, productID string, qty int) error {
	var stock sql.NullInt64
	err := tx.QueryRowContext(ctx, "SELECT stock_quantity FROM product WHERE id = ?", productID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %s: %w", productID, domain.ErrProductUnavailable)
	}
	if err != nil {
		return err
	}
	if !stock.Valid {
		return nil
	}
	if stock.Int64 < int64(qty) {
		return fmt.Errorf("product %s has %d left: %w", productID, stock.Int64, domain.ErrInsufficientStock)
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE product SET stock_quantity = stock_quantity - ? WHERE id = ? AND stock_quantity >= ?",
		qty, productID, qty)
	return err
}

// GetByID retrieves a Sale with its items.
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Sale, error) {
	sales, err := s.query(ctx, "WHERE id = ?", []any{id}, 1)
	if err != nil {
		return domain.Sale{}, err
	}
	if len(sales) == 0 {
		return domain.Sale{}, fmt.Errorf("sale %s: %w", id, storage.ErrNotFound)
	}
	return sales[0], nil
}

// List returns sales newest first, with items in the order they were sold.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Sale, error) {
	where, args := "", []any{}
	if !filter.Since.IsZero() {
		where = "WHERE timestamp >= ?"
		args = append(args, storage.FormatTime(filter.Since))
	}
	return s.query(ctx, where, args, filter.Limit)
}

func (s *SQLiteStore) query(ctx context.Context, where string, args []any, limit int) ([]domain.Sale, error) {
	q := "SELECT id, timestamp, account_id, member_name, payment_method, total_amount, tax_amount FROM sale " +
		where + " ORDER BY timestamp DESC, id"
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	var sales []domain.Sale
	index := map[string]int{}
	for rows.Next() {
		var sl domain.Sale
		var ts string
		if err := rows.Scan(&sl.ID, &ts, &sl.AccountID, &sl.MemberName, &sl.PaymentMethod, &sl.Total, &sl.TaxAmount); err != nil {
			rows.Close()
			return nil, err
		}
		if sl.Timestamp, err = storage.ParseTime(ts); err != nil {
			rows.Close()
			return nil, err
		}
		index[sl.ID] = len(sales)
		sales = append(sales, sl)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(sales))
	for _, sl := range sales {
		ids = append(ids, sl.ID)
	}
	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, sale_id, product_id, product_name, category, quantity, unit_price, subtotal FROM sale_item WHERE sale_id IN ("+
			strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")+") ORDER BY rowid", ids...)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it domain.Item
		if err := itemRows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.Category, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		i := index[it.SaleID]
		sales[i].Items = append(sales[i].Items, it)
	}
	return sales, itemRows.Err()
}
