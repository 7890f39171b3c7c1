package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osvaldn/indexer-gateway/internal/service"
)

type TenantHandler struct {
	service *service.TenantService
}

func NewTenantHandler(service *service.TenantService) *TenantHandler {
	return &TenantHandler{service: service}
}

func (h *TenantHandler) Create(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Network string `json:"network" binding:"required"`
		Pruned  bool   `json:"pruned"`
		Tier    string `json:"tier"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, err := h.service.Create(c.Request.Context(), req.Name, req.Network, req.Pruned, req.Tier)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key":     key,
		"message": "Save this key - it won't be shown again",
	})
}

func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tenants)
}

func (h *TenantHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tenant deactivated"})
}
