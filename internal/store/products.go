// internal/store/products.go

package store

import (
	"context"
	"database/sql"

	"opera-backend/internal/common/errors"
	"opera-backend/internal/common/logger"
	"opera-backend/internal/models"
)

// ProductStore persists the catalog.
type ProductStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewProductStore(db *sql.DB, log logger.Logger) *ProductStore {
	return &ProductStore{db: db, logger: log}
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.category_id, COALESCE(c.name, ''),
	       p.image_url, p.stock_quantity, p.is_available, p.created_at, p.updated_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

// List returns available products, optionally filtered by category.
func (s *ProductStore) List(ctx context.Context, categoryID *int64) ([]models.Product, error) {
	query := productSelect + ` WHERE p.is_available = 1`
	args := []interface{}{}
	if categoryID != nil {
		query += ` AND p.category_id = ?`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY p.name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "listing products failed", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Search matches available products by name or description.
func (s *ProductStore) Search(ctx context.Context, term string) ([]models.Product, error) {
	like := "%" + term + "%"
	rows, err := s.db.QueryContext(ctx,
		productSelect+` WHERE p.is_available = 1 AND (p.name LIKE ? OR p.description LIKE ?) ORDER BY p.name`,
		like, like)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "searching products failed", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var description, imageURL sql.NullString
		var categoryID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &description, &p.Price, &categoryID, &p.CategoryName,
			&imageURL, &p.StockQuantity, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "scanning product row failed", err)
		}
		p.Description = description.String
		p.ImageURL = imageURL.String
		if categoryID.Valid {
			p.CategoryID = &categoryID.Int64
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "iterating product rows failed", err)
	}
	return products, nil
}

// GetByID returns one product regardless of availability.
func (s *ProductStore) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	var description, imageURL sql.NullString
	var categoryID sql.NullInt64

	err := s.db.QueryRowContext(ctx, productSelect+` WHERE p.id = ?`, id).
		Scan(&p.ID, &p.Name, &description, &p.Price, &categoryID, &p.CategoryName,
			&imageURL, &p.StockQuantity, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeNotFound, "product not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "loading product failed", err)
	}
	p.Description = description.String
	p.ImageURL = imageURL.String
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	return &p, nil
}

// Create inserts a product and fills in its generated id.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, description, price, category_id, image_url, stock_quantity, is_available)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Price, p.CategoryID, p.ImageURL, p.StockQuantity, p.IsAvailable)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "inserting product failed", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "reading product id failed", err)
	}
	return nil
}

// Update rewrites the mutable product columns.
func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price = ?, category_id = ?,
		        image_url = ?, stock_quantity = ?, is_available = ?
		 WHERE id = ?`,
		p.Name, p.Description, p.Price, p.CategoryID, p.ImageURL, p.StockQuantity, p.IsAvailable, p.ID)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "updating product failed", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "reading affected rows failed", err)
	}
	if affected == 0 {
		return errors.New(errors.ErrCodeNotFound, "product not found")
	}
	return nil
}

// Delete hides a product. Rows are kept so past orders keep their joins.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE products SET is_available = 0 WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "deleting product failed", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "reading affected rows failed", err)
	}
	if affected == 0 {
		return errors.New(errors.ErrCodeNotFound, "product not found")
	}
	return nil
}
