package handlers

import (
	"net/http"

	"forgecraft/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetAdminConfig(c *gin.Context) {
	cfg, err := h.Config.Get(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

func (h *Handler) UpdateAdminConfig(c *gin.Context) {
	var req service.UpdateAdminConfigInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid config payload")
		return
	}

	cfg, err := h.Config.Update(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

type banRequest struct {
	Banned *bool `json:"banned" binding:"required"`
}

func (h *Handler) SetUserBanned(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid user id")
		return
	}
	var req banRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "banned is required")
		return
	}

	if err := h.Users.SetBanned(c.Request.Context(), userID, *req.Banned); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
