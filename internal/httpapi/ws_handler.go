package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"studentadmin/internal/auth"
	"studentadmin/internal/realtime"
)

type wsHandler struct {
	hub    *realtime.Hub
	secret string
	origin string
	log    *zap.Logger
}

// serve upgrades an authenticated connection and hands it to the hub.
// Browsers cannot set headers on websocket dials, so the token travels as a
// query parameter.
func (h *wsHandler) serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}
	if _, err := auth.ParseToken(token, h.secret); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == h.origin
		},
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.hub.Attach(conn)
}
