package handlers

import (
	"net/http"

	"github.com/developia-II/catalog-backend/internal/services/catalog"
	"github.com/developia-II/catalog-backend/utils"
	"github.com/gin-gonic/gin"
)

type SubcategoryHandler struct {
	svc *catalog.Service
}

func NewSubcategoryHandler(svc *catalog.Service) *SubcategoryHandler {
	return &SubcategoryHandler{svc: svc}
}

func (h *SubcategoryHandler) CreateSubcategory(c *gin.Context) {
	p, err := bindPayload(c)
	if err != nil {
		respondError(c, "subcategory", err)
		return
	}
	sub, err := h.svc.CreateSubcategory(c.Request.Context(), p)
	if err != nil {
		respondError(c, "subcategory", err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("subcategory created successfully", sub))
}

// GetSubcategories accepts ?categoryId= to list one category's subcategories.
func (h *SubcategoryHandler) GetSubcategories(c *gin.Context) {
	categoryID, err := queryID(c, "categoryId")
	if err != nil {
		respondError(c, "subcategory", err)
		return
	}
	subs, err := h.svc.ListSubcategories(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, "subcategory", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("subcategories fetched successfully", subs))
}

func (h *SubcategoryHandler) GetSubcategoryById(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "subcategory", err)
		return
	}
	sub, err := h.svc.GetSubcategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "subcategory", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("subcategory fetched successfully", sub))
}

func (h *SubcategoryHandler) UpdateSubcategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "subcategory", err)
		return
	}
	p, err := bindPayload(c)
	if err != nil {
		respondError(c, "subcategory", err)
		return
	}
	sub, err := h.svc.UpdateSubcategory(c.Request.Context(), id, p)
	if err != nil {
		respondError(c, "subcategory", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("subcategory updated successfully", sub))
}

func (h *SubcategoryHandler) DeleteSubcategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "subcategory", err)
		return
	}
	res, err := h.svc.DeleteSubcategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "subcategory", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("subcategory deleted successfully", res))
}
