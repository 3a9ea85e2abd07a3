// internal/server/categories.go

package server

import (
	"github.com/gin-gonic/gin"

	"opera-backend/internal/common/errors"
	"opera-backend/internal/models"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.stores.Categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"categories": categories})
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "name is required", err))
		return
	}

	category := &models.Category{Name: req.Name, Description: req.Description}
	if err := s.stores.Categories.Create(c.Request.Context(), category); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 201, gin.H{"category": category})
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeInvalidRequest, "name is required", err))
		return
	}

	category := &models.Category{ID: id, Name: req.Name, Description: req.Description}
	if err := s.stores.Categories.Update(c.Request.Context(), category); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"category": category})
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.stores.Categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, 200, gin.H{"id": id})
}
