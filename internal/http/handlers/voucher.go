package handlers

import (
	"net/http"

	"forgecraft/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createVoucherRequest struct {
	GoldAmount decimal.Decimal `json:"gold_amount"`
}

func (h *Handler) CreateVoucher(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req createVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "gold_amount is required")
		return
	}

	voucher, err := h.Vouchers.Create(c.Request.Context(), userID, req.GoldAmount)
	middleware.ObserveOp("voucher_create", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"voucher": voucher})
}

func (h *Handler) CancelVoucher(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	voucherID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid voucher id")
		return
	}

	err := h.Vouchers.Cancel(c.Request.Context(), userID, voucherID)
	middleware.ObserveOp("voucher_cancel", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListMyVouchers(c *gin.Context) {
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
	vouchers, err := h.Vouchers.ListByUser(c.Request.Context(), userID, p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vouchers": vouchers})
}

func (h *Handler) GetVoucher(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	voucherID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid voucher id")
		return
	}
	voucher, err := h.Vouchers.Get(c.Request.Context(), userID, voucherID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"voucher": voucher})
}
