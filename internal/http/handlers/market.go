package handlers

import (
	"net/http"

	"forgecraft/internal/domain"
	"forgecraft/internal/http/middleware"
	"forgecraft/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *Handler) ListMarket(c *gin.Context) {
	p, ok := pageFromQuery(c)
	if !ok {
		badRequest(c, "invalid page or limit")
		return
	}
	items, err := h.Market.ListActive(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) GetMarketItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid item id")
		return
	}
	item, err := h.Market.GetItem(c.Request.Context(), itemID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *Handler) PurchaseMarketItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid item id")
		return
	}

	purchase, err := h.Market.Purchase(c.Request.Context(), userID, itemID)
	middleware.ObserveOp("market_purchase", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

func (h *Handler) ListMyPurchases(c *gin.Context) {
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
	purchases, err := h.Market.ListPurchases(c.Request.Context(), userID, p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

type createMarketItemRequest struct {
	ItemType       string          `json:"item_type" binding:"required"`
	SwordLevelID   *int64          `json:"sword_level_id"`
	MaterialTypeID *int64          `json:"material_type_id"`
	ShieldTypeID   *int64          `json:"shield_type_id"`
	PriceGold      decimal.Decimal `json:"price_gold"`
}

func (h *Handler) CreateMarketItem(c *gin.Context) {
	var req createMarketItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid market item payload")
		return
	}

	item, err := h.Market.CreateItem(c.Request.Context(), service.CreateMarketItemInput{
		ItemType:       domain.MarketItemType(req.ItemType),
		SwordLevelID:   req.SwordLevelID,
		MaterialTypeID: req.MaterialTypeID,
		ShieldTypeID:   req.ShieldTypeID,
		PriceGold:      req.PriceGold,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *Handler) SetMarketItemActive(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid item id")
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "active is required")
		return
	}

	if err := h.Market.SetActive(c.Request.Context(), itemID, *req.Active); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type updatePriceRequest struct {
	PriceGold decimal.Decimal `json:"price_gold"`
}

func (h *Handler) UpdateMarketItemPrice(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid item id")
		return
	}
	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "price_gold is required")
		return
	}

	if err := h.Market.UpdatePrice(c.Request.Context(), itemID, req.PriceGold); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) DeleteMarketItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid item id")
		return
	}
	if err := h.Market.DeleteItem(c.Request.Context(), itemID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
