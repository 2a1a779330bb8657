package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/product"
)

const columns = "id, name, price, category, description, stock_quantity, tax_rate, image_url, status"

// SQLiteStore implements Store using SQLite.
// Prices and tax rates are stored as decimal TEXT.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new product store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Product by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Product, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM product WHERE id = ?", id)
	p, err := Scan(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, storage.ErrNotFound)
	}
	return p, err
}

// Save upserts a Product.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, p domain.Product) error {
	var stock any
	if p.StockQuantity != nil {
		stock = *p.StockQuantity
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO product (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, price=excluded.price, category=excluded.category,
			description=excluded.description, stock_quantity=excluded.stock_quantity,
			tax_rate=excluded.tax_rate, image_url=excluded.image_url, status=excluded.status`,
		p.ID, p.Name, p.Price.String(), p.Category, p.Description, stock, p.TaxRate.String(), p.ImageURL, p.Status,
	)
	return err
}

// Delete removes a Product. Deleting a missing id is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM product WHERE id = ?", id)
	return err
}

// List returns every product ordered by category then name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Product, error) {
	return storage.QueryAll(ctx, s.db, Scan, "SELECT "+columns+" FROM product ORDER BY category, name")
}

// Count returns the number of products.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM product").Scan(&n)
	return n, err
}

// Scan reads a product row selected with the standard column list.
// Exported for the sale store, which reads products inside its checkout transaction.
func Scan(scan func(dest ...any) error) (domain.Product, error) {
	var p domain.Product
	var stock sql.NullInt64
	if err := scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Description, &stock, &p.TaxRate, &p.ImageURL, &p.Status); err != nil {
		return domain.Product{}, err
	}
	if stock.Valid {
		n := int(stock.Int64)
		p.StockQuantity = &n
	}
	return p, nil
}

// Columns is the column list Scan expects.
const Columns = columns
