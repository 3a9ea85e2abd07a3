// internal/server/cakes.go

package server

import (
	"github.com/gin-gonic/gin"

	"opera-backend/internal/common/errors"
	"opera-backend/internal/models"
	"opera-backend/internal/store"
)

func (s *Server) handleListCakes(c *gin.Context) {
	includeInactive := c.Query("all") == "true"
	cakes, err := s.stores.Cakes.List(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"cakes": cakes})
}

func (s *Server) handleGetCake(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	cake, err := s.stores.Cakes.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"cake": cake})
}

func (s *Server) handleCreateCake(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		ImageURL string  `json:"image_url" binding:"required"`
		Price    float64 `json:"price"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "name and image_url are required", err))
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	cake := &models.Cake{Name: req.Name, ImageURL: req.ImageURL, Price: req.Price, IsActive: active}
	if err := s.stores.Cakes.Create(c.Request.Context(), cake); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 201, gin.H{"cake": cake})
}

func (s *Server) handleUpdateCake(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Name     *string  `json:"name"`
		ImageURL *string  `json:"image_url"`
		Price    *float64 `json:"price"`
		IsActive *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid cake payload", err))
		return
	}

	upd := store.CakeUpdate{Name: req.Name, ImageURL: req.ImageURL, Price: req.Price, IsActive: req.IsActive}
	if err := s.stores.Cakes.Update(c.Request.Context(), id, upd); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"id": id})
}

func (s *Server) handleDeleteCake(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.stores.Cakes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"id": id})
}
