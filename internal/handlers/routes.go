package handlers

import (
	"net/http"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/developia-II/catalog-backend/internal/media"
	"github.com/developia-II/catalog-backend/internal/middleware"
	"github.com/developia-II/catalog-backend/internal/services/catalog"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouteOptions struct {
	// Prefix is prepended to every catalog route, e.g. "/api".
	Prefix string
	// JWTSecret turns on admin-only writes when set.
	JWTSecret string
	// StaticDir is served under StaticPath when media is stored locally.
	StaticDir  string
	StaticPath string
	// MaxBodyBytes caps write request bodies. Zero means BodyLimit of the
	// default per-file media limit.
	MaxBodyBytes int64
}

func SetupRoutes(router *gin.Engine, store domain.CatalogStore, svc *catalog.Service, resolver *media.Resolver, opts RouteOptions) {
	logrus.Info("Setting up routes...")
	router.MaxMultipartMemory = maxMultipartMemory

	router.GET("/health", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			logrus.WithError(err).Warn("store ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "service": "catalog-backend"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "catalog-backend"})
	})

	if opts.StaticDir != "" {
		router.Static(opts.StaticPath, opts.StaticDir)
	}

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = BodyLimit(media.DefaultMaxBytes)
	}
	writes := []gin.HandlerFunc{limitBody(maxBody)}
	if opts.JWTSecret != "" {
		writes = append(writes, middleware.AuthMiddleware(opts.JWTSecret), middleware.RoleMiddleware("admin"))
	} else {
		logrus.Warn("JWT_SECRET not set - catalog writes are not authenticated")
	}
	guarded := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writes...), h)
	}

	api := router.Group(opts.Prefix)

	categoryHandler := NewCategoryHandler(svc)
	categories := api.Group("/catagory")
	{
		categories.POST("", guarded(categoryHandler.CreateCategory)...)
		categories.GET("", categoryHandler.GetCategories)
		categories.GET("/:id", categoryHandler.GetCategoryById)
		categories.PATCH("/:id", guarded(categoryHandler.UpdateCategory)...)
		categories.DELETE("/:id", guarded(categoryHandler.DeleteCategory)...)
	}

	subcategoryHandler := NewSubcategoryHandler(svc)
	subcategories := api.Group("/subcatagory")
	{
		subcategories.POST("", guarded(subcategoryHandler.CreateSubcategory)...)
		subcategories.GET("", subcategoryHandler.GetSubcategories)
		subcategories.GET("/:id", subcategoryHandler.GetSubcategoryById)
		subcategories.PATCH("/:id", guarded(subcategoryHandler.UpdateSubcategory)...)
		subcategories.DELETE("/:id", guarded(subcategoryHandler.DeleteSubcategory)...)
	}

	productHandler := NewProductHandler(svc)
	products := api.Group("/product")
	{
		products.POST("", guarded(productHandler.CreateProduct)...)
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProductById)
		products.PATCH("/:id", guarded(productHandler.UpdateProduct)...)
		products.DELETE("/:id", guarded(productHandler.DeleteProduct)...)
	}

	footerHandler := NewFooterHandler(svc)
	footers := api.Group("/footer")
	{
		footers.POST("", guarded(footerHandler.SaveFooter)...)
		footers.GET("", footerHandler.GetFooters)
		footers.GET("/current", footerHandler.GetCurrentFooter)
		footers.GET("/:id", footerHandler.GetFooterById)
		footers.PATCH("/:id", guarded(footerHandler.UpdateFooter)...)
		footers.DELETE("/:id", guarded(footerHandler.DeleteFooter)...)
	}

	addressHandler := NewFactoryAddressHandler(svc)
	addresses := api.Group("/factAdd")
	{
		addresses.POST("", guarded(addressHandler.CreateFactoryAddress)...)
		addresses.GET("", addressHandler.GetFactoryAddresses)
		addresses.GET("/:id", addressHandler.GetFactoryAddressById)
		addresses.PATCH("/:id", guarded(addressHandler.UpdateFactoryAddress)...)
		addresses.DELETE("/:id", guarded(addressHandler.DeleteFactoryAddress)...)
	}

	uploadHandler := NewUploadHandler(resolver)
	api.POST("/upload", guarded(uploadHandler.UploadImage)...)
}
