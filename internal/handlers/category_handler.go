package handlers

import (
	"net/http"

	"github.com/developia-II/catalog-backend/internal/services/catalog"
	"github.com/developia-II/catalog-backend/utils"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	svc *catalog.Service
}

func NewCategoryHandler(svc *catalog.Service) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	p, err := bindPayload(c)
	if err != nil {
		respondError(c, "category", err)
		return
	}
	category, err := h.svc.CreateCategory(c.Request.Context(), p)
	if err != nil {
		respondError(c, "category", err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("category created successfully", category))
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, "category", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("categories fetched successfully", categories))
}

func (h *CategoryHandler) GetCategoryById(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "category", err)
		return
	}
	category, err := h.svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "category", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("category fetched successfully", category))
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "category", err)
		return
	}
	p, err := bindPayload(c)
	if err != nil {
		respondError(c, "category", err)
		return
	}
	category, err := h.svc.UpdateCategory(c.Request.Context(), id, p)
	if err != nil {
		respondError(c, "category", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("category updated successfully", category))
}

// DeleteCategory also removes the category's subcategories and products and
// reports how many went with it.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "category", err)
		return
	}
	res, err := h.svc.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "category", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("category deleted successfully", res))
}
