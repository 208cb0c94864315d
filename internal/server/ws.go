package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"splitmate/internal/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// watchFriends upgrades the request to a websocket and streams friend
// collection snapshots until the client disconnects. Snapshot read
// failures are sent as error frames on the same socket; the stream itself
// stays open so the next change can still be delivered.
func (s *Server) watchFriends(c *gin.Context) {
	userKey := c.GetString(ctxEmail)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("Websocket upgrade failed", "user", userKey, "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := s.ledger.Subscribe(ctx, userKey)
	defer sub.Close()
	s.logger.Info("Watch started", "user", userKey)

	// Reads only detect the client going away; no inbound frames carry data.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Watch ended", "user", userKey)
			return
		case err := <-sub.Errs():
			msg := protocol.WatchMessage{Type: protocol.MessageError, Error: err.Error()}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case friends, ok := <-sub.Snapshots():
			if !ok {
				return
			}
			msg := protocol.WatchMessage{Type: protocol.MessageSnapshot, Friends: friends}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}
