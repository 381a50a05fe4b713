package handlers

import (
	"net/http"

	"github.com/developia-II/catalog-backend/internal/services/catalog"
	"github.com/developia-II/catalog-backend/utils"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc *catalog.Service
}

func NewProductHandler(svc *catalog.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	p, err := bindPayload(c)
	if err != nil {
		respondError(c, "product", err)
		return
	}
	product, err := h.svc.CreateProduct(c.Request.Context(), p)
	if err != nil {
		respondError(c, "product", err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("product created successfully", product))
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	categoryID, err := queryID(c, "categoryId")
	if err != nil {
		respondError(c, "product", err)
		return
	}
	subcategoryID, err := queryID(c, "subcategoryId")
	if err != nil {
		respondError(c, "product", err)
		return
	}
	products, err := h.svc.ListProducts(c.Request.Context(), catalog.ProductFilter{
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
	})
	if err != nil {
		respondError(c, "product", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("products fetched successfully", products))
}

func (h *ProductHandler) GetProductById(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "product", err)
		return
	}
	product, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, "product", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("product fetched successfully", product))
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "product", err)
		return
	}
	p, err := bindPayload(c)
	if err != nil {
		respondError(c, "product", err)
		return
	}
	product, err := h.svc.UpdateProduct(c.Request.Context(), id, p)
	if err != nil {
		respondError(c, "product", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("product updated successfully", product))
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "product", err)
		return
	}
	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, "product", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("product deleted successfully", gin.H{"id": id.Hex()}))
}
