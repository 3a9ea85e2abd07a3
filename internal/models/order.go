// internal/models/order.go
package models

import "time"

// Valid order lifecycle states.
var ValidOrderStatuses = []string{"pending", "confirmed", "preparing", "ready", "delivered", "cancelled"}

// Order represents a bakery order with its line items.
type Order struct {
	ID              int64       `json:"id"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	CustomerPhone   string      `json:"customer_phone,omitempty"`
	CustomerAddress string      `json:"customer_address,omitempty"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"`
	DeliveryDate    *time.Time  `json:"delivery_date,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Items           []OrderItem `json:"items,omitempty"`

	// List-view aggregates
	TotalItems   int    `json:"total_items,omitempty"`
	ItemsSummary string `json:"items_summary,omitempty"`
}

// OrderItem is one product line inside an order.
type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
	ProductName string  `json:"product_name,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// OrderStats is the dashboard summary.
type OrderStats struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	Confirmed    int     `json:"confirmed"`
	Delivered    int     `json:"delivered"`
	TotalRevenue float64 `json:"totalRevenue"`
	TodayOrders  int     `json:"todayOrders"`
}

// ReceiptRequest is the free-form payload of the two receipt endpoints. It is
// built per call and never persisted.
type ReceiptRequest struct {
	SelectedImageURL string `json:"selectedImageUrl,omitempty"`
	TemplateURL      string `json:"plantillaUrl,omitempty"`
	CakeTitle        string `json:"cake_title,omitempty"`
	Centimeters      string `json:"centimeters,omitempty"`
	CakeQuantity     string `json:"cake_quantity,omitempty"`
	CustomerName     string `json:"customer_name,omitempty"`
	CustomerPhone    string `json:"customer_phone,omitempty"`
	CustomerFullName string `json:"customer_full_name,omitempty"`
	OrderForName     string `json:"order_for_name,omitempty"`
	PickupAck        bool   `json:"pickup_ack,omitempty"`
	DateTime         string `json:"date_time,omitempty"`
	Notes            string `json:"notes,omitempty"`
	Minimal          bool   `json:"minimal,omitempty"`
}
