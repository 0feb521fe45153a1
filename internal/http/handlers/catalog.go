package handlers

import (
	"net/http"

	"forgecraft/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateSwordLevel(c *gin.Context) {
	var req service.CreateSwordLevelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid sword level payload")
		return
	}

	level, err := h.Catalog.CreateSwordLevel(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"level": level})
}

func (h *Handler) CreateMaterialType(c *gin.Context) {
	var req service.CreateCatalogTypeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid material type payload")
		return
	}

	m, err := h.Catalog.CreateMaterialType(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"material_type": m})
}

func (h *Handler) CreateShieldType(c *gin.Context) {
	var req service.CreateCatalogTypeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid shield type payload")
		return
	}

	t, err := h.Catalog.CreateShieldType(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shield_type": t})
}

func (h *Handler) ListMaterialTypes(c *gin.Context) {
	res, err := h.Catalog.ListMaterialTypes(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"material_types": res})
}

func (h *Handler) ListShieldTypes(c *gin.Context) {
	res, err := h.Catalog.ListShieldTypes(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shield_types": res})
}
