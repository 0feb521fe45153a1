package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ticketRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *Handler) CreateTicket(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and content are required")
		return
	}

	ticket, err := h.Support.Create(c.Request.Context(), userID, req.Title, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ticket": ticket})
}

func (h *Handler) UpdateTicket(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ticketID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid ticket id")
		return
	}
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and content are required")
		return
	}

	ticket, err := h.Support.Update(c.Request.Context(), userID, ticketID, req.Title, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

func (h *Handler) ListMyTickets(c *gin.Context) {
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
	tickets, err := h.Support.ListByUser(c.Request.Context(), userID, p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

func (h *Handler) ListAllTickets(c *gin.Context) {
	p, ok := pageFromQuery(c)
	if !ok {
		badRequest(c, "invalid page or limit")
		return
	}
	tickets, err := h.Support.ListAll(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

type replyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

func (h *Handler) ReplyTicket(c *gin.Context) {
	ticketID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid ticket id")
		return
	}
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "reply is required")
		return
	}

	if err := h.Support.Reply(c.Request.Context(), ticketID, req.Reply); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
