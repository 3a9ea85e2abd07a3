// internal/server/products.go

package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"opera-backend/internal/common/errors"
	"opera-backend/internal/models"
)

type productRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	CategoryID    *int64  `json:"category_id"`
	ImageURL      string  `json:"image_url"`
	StockQuantity int     `json:"stock_quantity"`
	IsAvailable   *bool   `json:"is_available"`
}

func (s *Server) handleListProducts(c *gin.Context) {
	var categoryID *int64
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, errors.New(errors.ErrCodeInvalidRequest, "category must be an integer"))
			return
		}
		categoryID = &id
	}

	products, err := s.stores.Products.List(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"products": products})
}

func (s *Server) handleSearchProducts(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		respondError(c, errors.New(errors.ErrCodeInvalidRequest, "search term q is required"))
		return
	}

	products, err := s.stores.Products.Search(c.Request.Context(), term)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"products": products})
}

func (s *Server) handleGetProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	product, err := s.stores.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"product": product})
}

func (s *Server) handleCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "name and a positive price are required", err))
		return
	}

	product := productFromRequest(req)
	if err := s.stores.Products.Create(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 201, gin.H{"product": product})
}

func (s *Server) handleUpdateProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "name and a positive price are required", err))
		return
	}

	product := productFromRequest(req)
	product.ID = id
	if err := s.stores.Products.Update(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"product": product})
}

func (s *Server) handleDeleteProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.stores.Products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"id": id})
}

func productFromRequest(req productRequest) *models.Product {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	return &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		IsAvailable:   available,
	}
}
