package handlers

import (
	"net/http"

	"github.com/developia-II/catalog-backend/internal/services/catalog"
	"github.com/developia-II/catalog-backend/utils"
	"github.com/gin-gonic/gin"
)

type FooterHandler struct {
	svc *catalog.Service
}

func NewFooterHandler(svc *catalog.Service) *FooterHandler {
	return &FooterHandler{svc: svc}
}

// SaveFooter creates the site footer, or overwrites the supplied fields of
// the existing one. 201 on create, 200 on overwrite.
func (h *FooterHandler) SaveFooter(c *gin.Context) {
	p, err := bindPayload(c)
	if err != nil {
		respondError(c, "footer", err)
		return
	}
	footer, created, err := h.svc.SaveFooter(c.Request.Context(), p)
	if err != nil {
		respondError(c, "footer", err)
		return
	}
	if created {
		c.JSON(http.StatusCreated, utils.SuccessResponse("footer created successfully", footer))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("footer updated successfully", footer))
}

func (h *FooterHandler) GetFooters(c *gin.Context) {
	footers, err := h.svc.ListFooters(c.Request.Context())
	if err != nil {
		respondError(c, "footer", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("footers fetched successfully", footers))
}

func (h *FooterHandler) GetCurrentFooter(c *gin.Context) {
	footer, err := h.svc.CurrentFooter(c.Request.Context())
	if err != nil {
		respondError(c, "footer", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("footer fetched successfully", footer))
}

func (h *FooterHandler) GetFooterById(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "footer", err)
		return
	}
	footer, err := h.svc.GetFooter(c.Request.Context(), id)
	if err != nil {
		respondError(c, "footer", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("footer fetched successfully", footer))
}

func (h *FooterHandler) UpdateFooter(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "footer", err)
		return
	}
	p, err := bindPayload(c)
	if err != nil {
		respondError(c, "footer", err)
		return
	}
	footer, err := h.svc.UpdateFooter(c.Request.Context(), id, p)
	if err != nil {
		respondError(c, "footer", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("footer updated successfully", footer))
}

func (h *FooterHandler) DeleteFooter(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "footer", err)
		return
	}
	if err := h.svc.DeleteFooter(c.Request.Context(), id); err != nil {
		respondError(c, "footer", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("footer deleted successfully", gin.H{"id": id.Hex()}))
}
