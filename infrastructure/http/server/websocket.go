package server

import (
	"chat-notify/contract"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	TransportWebSocket = "websocket"
	writeWait          = 10 * time.Second
	readLimit          = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Message is the JSON envelope of one frame on the WebSocket transport.
type Message struct {
	Event     string          `json:"event,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	KeepAlive string          `json:"keep_alive,omitempty"`
}

type wsWriter struct {
	conn *websocket.Conn
}

func (w *wsWriter) WriteFrame(frame contract.Frame) error {
	msg := Message{KeepAlive: frame.Comment}
	if !frame.IsHeartbeat() {
		msg = Message{Event: frame.Event, Data: frame.Data}
	}
	if err := w.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return w.conn.WriteJSON(msg)
}

func (h *handlers) ws(c *gin.Context) {
	userID := mustUserID(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Websocket upgrade failed", "user_id", userID, "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	// The stream is push only; reading detects the client going away.
	go func() {
		defer cancel()
		conn.SetReadLimit(readLimit)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	err = h.streamer.Serve(ctx, TransportWebSocket, userID, &wsWriter{conn: conn})
	if err != nil {
		h.log.Warn("Websocket stream ended", "user_id", userID, "error", err)
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
}
