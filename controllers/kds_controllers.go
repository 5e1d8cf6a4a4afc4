package controllers

import (
	"net/http"

	"github.com/AlexeyDemidow/restaurant-api-service/kds"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsHandler -> websocket stream of table and reservation events
func EventsHandler(hub *kds.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := "viewer"
		if v, ok := c.Get("role"); ok {
			if s, ok := v.(string); ok {
				role = s
			}
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		hub.Register(ws, role)

		// drain until the client goes away
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.Unregister(ws)
	}
}
