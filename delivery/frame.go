// Package delivery turns a user's broadcast channel into a push stream.
// It is transport agnostic: SSE, WebSocket and gRPC all plug in a
// contract.FrameWriter and share the same Session.
package delivery

import (
	"chat-notify/contract"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"encoding/json"
	"fmt"
)

// KeepAlive is the comment carried by heartbeat frames.
const KeepAlive = "keep-alive-text"

// EncodeEvent builds the frame for evt: the variant name as event and the
// bare snapshot JSON as data.
func EncodeEvent(evt event.DomainEvent) (contract.Frame, error) {
	data, err := json.Marshal(evt.Snapshot())
	if err != nil {
		return contract.Frame{}, fmt.Errorf("%w: %s: %w", errors.ErrEncodeFrame, evt.Name(), err)
	}
	return contract.Frame{Event: evt.Name(), Data: data}, nil
}

func Heartbeat() contract.Frame {
	return contract.Frame{Comment: KeepAlive}
}
