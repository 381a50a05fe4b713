package handlers

import (
	"net/http"

	"github.com/developia-II/catalog-backend/internal/services/catalog"
	"github.com/developia-II/catalog-backend/utils"
	"github.com/gin-gonic/gin"
)

type FactoryAddressHandler struct {
	svc *catalog.Service
}

func NewFactoryAddressHandler(svc *catalog.Service) *FactoryAddressHandler {
	return &FactoryAddressHandler{svc: svc}
}

func (h *FactoryAddressHandler) CreateFactoryAddress(c *gin.Context) {
	p, err := bindPayload(c)
	if err != nil {
		respondError(c, "factory address", err)
		return
	}
	addr, err := h.svc.CreateFactoryAddress(c.Request.Context(), p)
	if err != nil {
		respondError(c, "factory address", err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("factory address created successfully", addr))
}

func (h *FactoryAddressHandler) GetFactoryAddresses(c *gin.Context) {
	addrs, err := h.svc.ListFactoryAddresses(c.Request.Context())
	if err != nil {
		respondError(c, "factory address", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("factory addresses fetched successfully", addrs))
}

func (h *FactoryAddressHandler) GetFactoryAddressById(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "factory address", err)
		return
	}
	addr, err := h.svc.GetFactoryAddress(c.Request.Context(), id)
	if err != nil {
		respondError(c, "factory address", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("factory address fetched successfully", addr))
}

func (h *FactoryAddressHandler) UpdateFactoryAddress(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "factory address", err)
		return
	}
	p, err := bindPayload(c)
	if err != nil {
		respondError(c, "factory address", err)
		return
	}
	addr, err := h.svc.UpdateFactoryAddress(c.Request.Context(), id, p)
	if err != nil {
		respondError(c, "factory address", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("factory address updated successfully", addr))
}

func (h *FactoryAddressHandler) DeleteFactoryAddress(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, "factory address", err)
		return
	}
	if err := h.svc.DeleteFactoryAddress(c.Request.Context(), id); err != nil {
		respondError(c, "factory address", err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("factory address deleted successfully", gin.H{"id": id.Hex()}))
}
