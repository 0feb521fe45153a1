package handlers

import (
	"net/http"
	"os"

	"forgecraft/internal/logger"
	"forgecraft/internal/service"
	"forgecraft/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades the connection and attaches it to the notification hub. The
// token rides in the query string because browsers cannot set headers on a
// websocket handshake.
func (h *Handler) WS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}

	userID, sid, err := service.ParseJWT(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if !h.Sessions.Valid(c.Request.Context(), sid, userID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}

	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", "err", err)
		return
	}

	go ws.NewClient(userID, conn, h.Hub).Run()
}
