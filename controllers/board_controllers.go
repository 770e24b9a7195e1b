package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/lo-board/board"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// BoardHandler upgrades to the board WebSocket so the client receives
// reservation, phase and alert events live.
func BoardHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	if role != "staff" && role != "admin" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	board.RegisterClient(ws, role)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	board.UnregisterClient(ws)
}
