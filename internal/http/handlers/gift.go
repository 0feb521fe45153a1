package handlers

import (
	"net/http"

	"forgecraft/internal/http/middleware"
	"forgecraft/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateGift(c *gin.Context) {
	var req service.CreateGiftInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid gift payload")
		return
	}

	gift, err := h.Gifts.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gift": gift})
}

func (h *Handler) CancelGift(c *gin.Context) {
	giftID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid gift id")
		return
	}
	if err := h.Gifts.Cancel(c.Request.Context(), giftID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) DeleteGift(c *gin.Context) {
	giftID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid gift id")
		return
	}
	if err := h.Gifts.Delete(c.Request.Context(), giftID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ClaimGift(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	giftID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid gift id")
		return
	}

	gift, err := h.Gifts.Claim(c.Request.Context(), userID, giftID)
	middleware.ObserveOp("gift_claim", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gift": gift})
}

func (h *Handler) ListMyGifts(c *gin.Context) {
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
	gifts, err := h.Gifts.ListByUser(c.Request.Context(), userID, p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": gifts})
}
