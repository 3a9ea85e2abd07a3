// internal/server/server.go

// Package server exposes the bakery HTTP API with gin.
package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"opera-backend/internal/common/auth"
	"opera-backend/internal/common/config"
	commonhttp "opera-backend/internal/common/http"
	"opera-backend/internal/common/logger"
	"opera-backend/internal/common/observability"
	"opera-backend/internal/receipt"
	"opera-backend/internal/receipt/assets"
	"opera-backend/internal/store"
)

// Stores bundles the persistence layer handed to the server.
type Stores struct {
	Orders     *store.OrderStore
	Products   *store.ProductStore
	Categories *store.CategoryStore
	Cakes      *store.CakeStore
	Users      *store.UserStore
}

// Server holds the handler dependencies.
type Server struct {
	cfg       *config.Config
	logger    logger.Logger
	stores    Stores
	generator *receipt.Generator
	tokens    *auth.TokenManager
	obs       *observability.Observability
}

func New(cfg *config.Config, log logger.Logger, stores Stores, obs *observability.Observability) *Server {
	assetClient := commonhttp.NewClient(time.Duration(cfg.Receipt.AssetTimeout) * time.Millisecond)
	resolver := assets.NewResolver(assetClient, log, cfg.Receipt.AssetsDir, cfg.Receipt.StaticDir, cfg.Companion.BaseURL)

	return &Server{
		cfg:       cfg,
		logger:    log,
		stores:    stores,
		generator: receipt.NewGenerator(resolver, log),
		tokens:    auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour),
		obs:       obs,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestID())
	router.Use(s.requestLogger())
	router.Use(s.cors())
	router.Use(s.bodyLimit())

	router.Static("/uploads", s.cfg.Receipt.UploadsDir)

	api := router.Group("/api")
	api.GET("/test", s.handleTest)

	auth := api.Group("/auth")
	{
		auth.POST("/login", s.handleLogin)
		auth.POST("/register", s.handleRegister)
		auth.GET("/profile", s.authRequired(), s.handleProfile)
		auth.POST("/verify", s.authRequired(), s.handleVerify)
		auth.POST("/logout", s.handleLogout)
	}

	products := api.Group("/products")
	{
		products.GET("", s.handleListProducts)
		products.GET("/search", s.handleSearchProducts)
		products.GET("/:id", s.handleGetProduct)
		products.POST("", s.authRequired(), s.adminRequired(), s.handleCreateProduct)
		products.PUT("/:id", s.authRequired(), s.adminRequired(), s.handleUpdateProduct)
		products.DELETE("/:id", s.authRequired(), s.adminRequired(), s.handleDeleteProduct)

		products.GET("/categories/all", s.handleListCategories)
		products.POST("/categories", s.authRequired(), s.adminRequired(), s.handleCreateCategory)
		products.PUT("/categories/:id", s.authRequired(), s.adminRequired(), s.handleUpdateCategory)
		products.DELETE("/categories/:id", s.authRequired(), s.adminRequired(), s.handleDeleteCategory)
	}

	cakes := api.Group("/cakes")
	{
		cakes.GET("", s.handleListCakes)
		cakes.GET("/:id", s.handleGetCake)
		cakes.POST("", s.authRequired(), s.adminRequired(), s.handleCreateCake)
		cakes.PUT("/:id", s.authRequired(), s.adminRequired(), s.handleUpdateCake)
		cakes.DELETE("/:id", s.authRequired(), s.adminRequired(), s.handleDeleteCake)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", s.handleListOrders)
		orders.POST("", s.handleCreateOrder)
		orders.GET("/stats/summary", s.handleOrderStats)
		orders.GET("/:id", s.handleGetOrder)
		orders.PUT("/:id/status", s.handleUpdateOrderStatus)

		orders.POST("/pdf", s.handleReceiptStream)
		orders.POST("/pdf/save", s.handleReceiptSave)
	}

	return router
}

func (s *Server) handleTest(c *gin.Context) {
	respondData(c, 200, gin.H{
		"message": "Backend funcionando correctamente",
		"app":     s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}
