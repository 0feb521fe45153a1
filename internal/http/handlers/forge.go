package handlers

import (
	"net/http"

	"forgecraft/internal/http/middleware"
	"forgecraft/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) UpgradeSword(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	swordID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid sword id")
		return
	}

	result, err := h.Forge.Upgrade(c.Request.Context(), userID, swordID)
	middleware.ObserveOp("upgrade", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

type synthesizeRequest struct {
	Items []service.SynthesisEntry `json:"items" binding:"required"`
}

func (h *Handler) Synthesize(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "items are required")
		return
	}

	sword, err := h.Forge.Synthesize(c.Request.Context(), userID, req.Items)
	middleware.ObserveOp("synthesize", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sword": sword})
}

func (h *Handler) ListSwordLevels(c *gin.Context) {
	levels, err := h.Forge.Levels(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"levels": levels})
}
