package server

import (
	"chat-notify/contract"
	"io"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

const TransportSSE = "sse"

// sseWriter renders frames as text/event-stream: event frames as an
// event/data pair, heartbeats as a comment line.
type sseWriter struct {
	w gin.ResponseWriter
}

func (s *sseWriter) WriteFrame(frame contract.Frame) error {
	var err error
	if frame.IsHeartbeat() {
		_, err = io.WriteString(s.w, ":"+frame.Comment+"\n\n")
	} else {
		err = sse.Encode(s.w, sse.Event{Event: frame.Event, Data: string(frame.Data)})
	}
	if err != nil {
		return err
	}
	s.w.Flush()
	return nil
}

func (h *handlers) events(c *gin.Context) {
	userID := mustUserID(c)
	h.log.Info("SSE client connected", "user_id", userID, "user_agent", c.Request.UserAgent())

	header := c.Writer.Header()
	header.Set("Content-Type", sse.ContentType)
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	if err := h.streamer.Serve(c.Request.Context(), TransportSSE, userID, &sseWriter{w: c.Writer}); err != nil {
		h.log.Warn("SSE stream ended", "user_id", userID, "error", err)
	}
}
