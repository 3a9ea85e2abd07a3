// internal/store/cakes.go

package store

import (
	"context"
	"database/sql"

	"opera-backend/internal/common/errors"
	"opera-backend/internal/models"
)

// CakeStore persists the showcase cakes shown on the order page.
type CakeStore struct {
	db *sql.DB
}

func NewCakeStore(db *sql.DB) *CakeStore {
	return &CakeStore{db: db}
}

const cakeSelect = `SELECT id, name, image_url, price, is_active, created_at, updated_at FROM cakes`

// List returns cakes, active ones only unless includeInactive is set.
func (s *CakeStore) List(ctx context.Context, includeInactive bool) ([]models.Cake, error) {
	query := cakeSelect
	if !includeInactive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "listing cakes failed", err)
	}
	defer rows.Close()

	cakes := []models.Cake{}
	for rows.Next() {
		var c models.Cake
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL, &c.Price, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "scanning cake row failed", err)
		}
		cakes = append(cakes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "iterating cake rows failed", err)
	}
	return cakes, nil
}

// GetByID returns one cake.
func (s *CakeStore) GetByID(ctx context.Context, id int64) (*models.Cake, error) {
	var c models.Cake
	err := s.db.QueryRowContext(ctx, cakeSelect+` WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.ImageURL, &c.Price, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeNotFound, "cake not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "loading cake failed", err)
	}
	return &c, nil
}

// Create inserts a cake and fills in its generated id.
func (s *CakeStore) Create(ctx context.Context, c *models.Cake) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cakes (name, image_url, price, is_active) VALUES (?, ?, ?, ?)`,
		c.Name, c.ImageURL, c.Price, c.IsActive)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "inserting cake failed", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "reading cake id failed", err)
	}
	return nil
}

// CakeUpdate carries a partial cake update; nil fields keep their stored
// values.
type CakeUpdate struct {
	Name     *string
	ImageURL *string
	Price    *float64
	IsActive *bool
}

// Update applies a partial update.
func (s *CakeStore) Update(ctx context.Context, id int64, upd CakeUpdate) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cakes SET name = COALESCE(?, name),
		        image_url = COALESCE(?, image_url),
		        price = COALESCE(?, price),
		        is_active = COALESCE(?, is_active)
		 WHERE id = ?`,
		upd.Name, upd.ImageURL, upd.Price, upd.IsActive, id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "updating cake failed", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "reading affected rows failed", err)
	}
	if affected == 0 {
		return errors.New(errors.ErrCodeNotFound, "cake not found")
	}
	return nil
}

// Delete deactivates a cake so it disappears from the order page.
func (s *CakeStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE cakes SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "deleting cake failed", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "reading affected rows failed", err)
	}
	if affected == 0 {
		return errors.New(errors.ErrCodeNotFound, "cake not found")
	}
	return nil
}
