// internal/store/categories.go

package store

import (
	"context"
	"database/sql"

	"opera-backend/internal/common/errors"
	"opera-backend/internal/models"
)

// CategoryStore persists product categories.
type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns all categories with their live product counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.description, COUNT(p.id) AS product_count, c.created_at
		 FROM categories c
		 LEFT JOIN products p ON p.category_id = c.id AND p.is_available = 1
		 GROUP BY c.id
		 ORDER BY c.name`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "listing categories failed", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.ProductCount, &c.CreatedAt); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "scanning category row failed", err)
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "iterating category rows failed", err)
	}
	return categories, nil
}

// Create inserts a category and fills in its generated id.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`, c.Name, c.Description)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "inserting category failed", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "reading category id failed", err)
	}
	return nil
}

// Update renames a category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`, c.Name, c.Description, c.ID)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "updating category failed", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "reading affected rows failed", err)
	}
	if affected == 0 {
		return errors.New(errors.ErrCodeNotFound, "category not found")
	}
	return nil
}

// Delete removes a category. Categories still referenced by available
// products are refused.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = ? AND is_available = 1`, id).Scan(&count)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "counting category products failed", err)
	}
	if count > 0 {
		return errors.New(errors.ErrCodeConflict, "category still has products")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "deleting category failed", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "reading affected rows failed", err)
	}
	if affected == 0 {
		return errors.New(errors.ErrCodeNotFound, "category not found")
	}
	return nil
}
