// internal/server/orders.go

package server

import (
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"opera-backend/internal/common/errors"
	"opera-backend/internal/common/validation"
	"opera-backend/internal/models"
)

// createOrderSchema validates the order payload before it touches the
// database, mirroring what the storefront promises to send.
const createOrderSchema = `{
	"type": "object",
	"required": ["customer_name", "items"],
	"properties": {
		"customer_name": {"type": "string", "minLength": 1},
		"customer_email": {"type": "string"},
		"customer_phone": {"type": "string"},
		"customer_address": {"type": "string"},
		"delivery_date": {"type": "string"},
		"notes": {"type": "string"},
		"items": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["product_id", "quantity", "unit_price"],
				"properties": {
					"product_id": {"type": "integer", "minimum": 1},
					"quantity": {"type": "integer", "minimum": 1},
					"unit_price": {"type": "number", "minimum": 0}
				}
			}
		}
	}
}`

var orderSchema = validation.MustCompile(createOrderSchema)

type createOrderRequest struct {
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	CustomerAddress string            `json:"customer_address"`
	DeliveryDate    string            `json:"delivery_date"`
	Notes           string            `json:"notes"`
	Items           []createOrderItem `json:"items"`
}

type createOrderItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "reading request body failed", err))
		return
	}

	if err := orderSchema.Validate(body); err != nil {
		respondError(c, err)
		return
	}

	var req createOrderRequest
	if err := bindJSONBytes(body, &req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "decoding order payload failed", err))
		return
	}

	order := &models.Order{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Notes:           req.Notes,
	}
	if req.DeliveryDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.DeliveryDate); err == nil {
			order.DeliveryDate = &parsed
		}
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if err := s.stores.Orders.Create(c.Request.Context(), order); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 201, gin.H{"order": order})
}

func (s *Server) handleListOrders(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !validStatus(status) {
		respondError(c, errors.New(errors.ErrCodeInvalidRequest, "unknown order status"))
		return
	}

	var (
		orders []models.Order
		err    error
	)
	if status != "" {
		orders, err = s.stores.Orders.ListByStatus(c.Request.Context(), status)
	} else {
		orders, err = s.stores.Orders.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"orders": orders})
}

func (s *Server) handleGetOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := s.stores.Orders.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"order": order})
}

func (s *Server) handleUpdateOrderStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "status is required", err))
		return
	}
	if !validStatus(req.Status) {
		respondError(c, errors.New(errors.ErrCodeInvalidRequest, "unknown order status"))
		return
	}

	if err := s.stores.Orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"id": id, "status": req.Status})
}

func (s *Server) handleOrderStats(c *gin.Context) {
	stats, err := s.stores.Orders.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"stats": stats})
}

func validStatus(status string) bool {
	for _, s := range models.ValidOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New(errors.ErrCodeInvalidRequest, "id must be a positive integer")
	}
	return id, nil
}
