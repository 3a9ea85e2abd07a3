// internal/store/orders.go

// Package store implements MySQL persistence for the bakery catalog and
// orders.
package store

import (
	"context"
	"database/sql"

	"opera-backend/internal/common/errors"
	"opera-backend/internal/common/logger"
	"opera-backend/internal/models"
)

// OrderStore persists orders and their line items.
type OrderStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewOrderStore(db *sql.DB, log logger.Logger) *OrderStore {
	return &OrderStore{db: db, logger: log}
}

// Create inserts the order and its items in one transaction. Item subtotals
// and the order total are computed here so the stored amounts always agree
// with the stored lines.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "starting order transaction failed", err)
	}
	defer tx.Rollback()

	total := 0.0
	for i := range order.Items {
		item := &order.Items[i]
		item.Subtotal = float64(item.Quantity) * item.UnitPrice
		total += item.Subtotal
	}
	order.TotalAmount = total
	if order.Status == "" {
		order.Status = "pending"
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (customer_name, customer_email, customer_phone, customer_address, total_amount, status, delivery_date, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.CustomerAddress,
		order.TotalAmount, order.Status, order.DeliveryDate, order.Notes)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "inserting order failed", err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "reading order id failed", err)
	}
	order.ID = orderID

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = orderID
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
			 VALUES (?, ?, ?, ?, ?)`,
			orderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal); err != nil {
			return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "inserting order item failed", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "committing order failed", err)
	}

	s.logger.Info("order created", map[string]interface{}{
		"order_id": orderID,
		"items":    len(order.Items),
		"total":    order.TotalAmount,
	})
	return nil
}

const orderListQuery = `
	SELECT o.id, o.customer_name, o.customer_email, o.customer_phone, o.customer_address,
	       o.total_amount, o.status, o.delivery_date, o.notes, o.created_at, o.updated_at,
	       COALESCE(SUM(oi.quantity), 0) AS total_items,
	       COALESCE(GROUP_CONCAT(CONCAT(p.name, ' x', oi.quantity) SEPARATOR ', '), '') AS items_summary
	FROM orders o
	LEFT JOIN order_items oi ON oi.order_id = o.id
	LEFT JOIN products p ON p.id = oi.product_id`

// List returns all orders newest first, with aggregated line summaries.
func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, orderListQuery+` GROUP BY o.id ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "listing orders failed", err)
	}
	defer rows.Close()
	return scanOrderSummaries(rows)
}

// ListByStatus returns orders in the given lifecycle state.
func (s *OrderStore) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, orderListQuery+` WHERE o.status = ? GROUP BY o.id ORDER BY o.created_at DESC`, status)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "listing orders by status failed", err)
	}
	defer rows.Close()
	return scanOrderSummaries(rows)
}

func scanOrderSummaries(rows *sql.Rows) ([]models.Order, error) {
	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		var email, phone, address, notes sql.NullString
		var delivery sql.NullTime
		if err := rows.Scan(&o.ID, &o.CustomerName, &email, &phone, &address,
			&o.TotalAmount, &o.Status, &delivery, &notes, &o.CreatedAt, &o.UpdatedAt,
			&o.TotalItems, &o.ItemsSummary); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "scanning order row failed", err)
		}
		o.CustomerEmail = email.String
		o.CustomerPhone = phone.String
		o.CustomerAddress = address.String
		o.Notes = notes.String
		if delivery.Valid {
			o.DeliveryDate = &delivery.Time
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "iterating order rows failed", err)
	}
	return orders, nil
}

// GetByID returns one order with its full item list.
func (s *OrderStore) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	var email, phone, address, notes sql.NullString
	var delivery sql.NullTime

	err := s.db.QueryRowContext(ctx,
		`SELECT id, customer_name, customer_email, customer_phone, customer_address,
		        total_amount, status, delivery_date, notes, created_at, updated_at
		 FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.CustomerName, &email, &phone, &address,
			&o.TotalAmount, &o.Status, &delivery, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeNotFound, "order not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "loading order failed", err)
	}
	o.CustomerEmail = email.String
	o.CustomerPhone = phone.String
	o.CustomerAddress = address.String
	o.Notes = notes.String
	if delivery.Valid {
		o.DeliveryDate = &delivery.Time
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.subtotal,
		        COALESCE(p.name, ''), COALESCE(p.image_url, '')
		 FROM order_items oi
		 LEFT JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = ?`, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "loading order items failed", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.Subtotal, &item.ProductName, &item.ImageURL); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "scanning order item failed", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "iterating order items failed", err)
	}
	return &o, nil
}

// UpdateStatus moves the order to a new lifecycle state.
func (s *OrderStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "updating order status failed", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "reading affected rows failed", err)
	}
	if affected == 0 {
		return errors.New(errors.ErrCodeNotFound, "order not found")
	}
	return nil
}

// Stats aggregates the dashboard counters.
func (s *OrderStore) Stats(ctx context.Context) (*models.OrderStats, error) {
	var stats models.OrderStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(status = 'pending'), 0),
		        COALESCE(SUM(status = 'confirmed'), 0),
		        COALESCE(SUM(status = 'delivered'), 0),
		        COALESCE(SUM(CASE WHEN status = 'delivered' THEN total_amount ELSE 0 END), 0),
		        COALESCE(SUM(DATE(created_at) = CURDATE()), 0)
		 FROM orders`).
		Scan(&stats.Total, &stats.Pending, &stats.Confirmed, &stats.Delivered,
			&stats.TotalRevenue, &stats.TodayOrders)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "loading order stats failed", err)
	}
	return &stats, nil
}
