package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/aivora/aivora-backend/utils"
)

var upgrader = websocket.Upgrader{
	// the access token in the query string is the only credential
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleUserWebSocket upgrades after checking the token query parameter.
func (h *Hub) HandleUserWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	identity, err := claims.Identity()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	userID := identity.UserID.String()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}
	client := h.Register(userID, conn)
	defer h.Unregister(client)
	h.log.Info("websocket connected", "user_id", userID)

	if msg, err := json.Marshal(Event{Type: "connected", Data: gin.H{"user_id": userID}}); err == nil {
		client.Send <- msg
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.log.Info("websocket disconnected", "user_id", userID)
}
