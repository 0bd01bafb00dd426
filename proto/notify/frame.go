//go:generate protoc -I ../.. --go_out=../.. --go_opt=paths=source_relative --go-grpc_out=../.. --go-grpc_opt=paths=source_relative proto/notify/notify.proto

// Package notify holds the gRPC binding of notify.proto and the mapping
// between push frames and stream messages.
package notify

import (
	"chat-notify/contract"
	"fmt"
)

// FromFrame encodes a push frame as a Subscribe stream message.
func FromFrame(frame contract.Frame) *Frame {
	if frame.IsHeartbeat() {
		return &Frame{Comment: frame.Comment}
	}
	return &Frame{Event: frame.Event, Data: frame.Data}
}

// ToFrame decodes a Subscribe stream message.
func (x *Frame) ToFrame() (contract.Frame, error) {
	if x.GetEvent() == "" {
		if x.GetComment() == "" {
			return contract.Frame{}, fmt.Errorf("frame without event name")
		}
		return contract.Frame{Comment: x.GetComment()}, nil
	}
	return contract.Frame{Event: x.GetEvent(), Data: x.GetData()}, nil
}
