package handlers

import (
	"net/http"

	"forgecraft/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListSwords(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	p, ok := pageFromQuery(c)
	if !ok {
		badRequest(c, "invalid page or limit")
		return
	}

	swords, err := h.Inventory.ListSwords(c.Request.Context(), userID, p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"swords": swords})
}

func (h *Handler) ListMaterials(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	p, ok := pageFromQuery(c)
	if !ok {
		badRequest(c, "invalid page or limit")
		return
	}

	materials, err := h.Inventory.ListMaterials(c.Request.Context(), userID, p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": materials})
}

func (h *Handler) ListShields(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	p, ok := pageFromQuery(c)
	if !ok {
		badRequest(c, "invalid page or limit")
		return
	}

	shields, err := h.Inventory.ListShields(c.Request.Context(), userID, p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shields": shields})
}

func (h *Handler) SellSword(c *gin.Context) {
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

	earned, err := h.Inventory.SellSword(c.Request.Context(), userID, swordID)
	middleware.ObserveOp("sell_sword", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"earned": earned})
}

type sellQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}

func (h *Handler) SellMaterial(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	typeID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid material type id")
		return
	}
	var req sellQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantity is required")
		return
	}

	earned, err := h.Inventory.SellMaterial(c.Request.Context(), userID, typeID, req.Quantity)
	middleware.ObserveOp("sell_material", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"earned": earned})
}

func (h *Handler) SellShield(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	typeID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid shield type id")
		return
	}
	var req sellQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantity is required")
		return
	}

	earned, err := h.Inventory.SellShield(c.Request.Context(), userID, typeID, req.Quantity)
	middleware.ObserveOp("sell_shield", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"earned": earned})
}

func (h *Handler) PutSwordOnAnvil(c *gin.Context) {
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

	if err := h.Inventory.SetAnvilSword(c.Request.Context(), userID, swordID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) TakeSwordOffAnvil(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := h.Inventory.RemoveAnvilSword(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) PutShieldOnAnvil(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	typeID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid shield type id")
		return
	}

	if err := h.Inventory.SetAnvilShield(c.Request.Context(), userID, typeID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) TakeShieldOffAnvil(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := h.Inventory.RemoveAnvilShield(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
