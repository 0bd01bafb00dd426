package delivery

import (
	"chat-notify/contract"
	"chat-notify/domain"
	"chat-notify/errors"
	"chat-notify/observability"
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
)

const DefaultHeartbeatInterval = time.Second

type State int32

const (
	Connecting State = iota
	Subscribed
	Streaming
	Closing
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Subscribed:
		return "subscribed"
	case Streaming:
		return "streaming"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Session is one client connection of one user.
//
// Run subscribes the user, streams event frames and heartbeats to the
// writer and releases the subscription on every exit path: client gone,
// write failure or shutdown. A session runs once.
type Session struct {
	ID        string
	UserID    domain.UserID
	Transport string

	log       *slog.Logger
	registry  contract.IRegistry
	clock     clock.Clock
	heartbeat time.Duration
	metrics   *observability.Metrics
	state     atomic.Int32
	started   atomic.Bool
	lagged    uint64
}

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) setState(state State) {
	s.state.Store(int32(state))
	s.log.Debug("Session state", "state", state.String())
}

func (s *Session) Run(ctx context.Context, w contract.FrameWriter) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.ErrSessionClosed
	}
	sub := s.registry.Subscribe(s.UserID)
	s.setState(Subscribed)
	defer func() {
		s.setState(Closing)
		sub.Close()
		s.setState(Closed)
		s.log.Info("Session closed", "lagged", sub.Lagged())
	}()
	s.log.Info("Session opened")

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-sub.Events():
			if !ok {
				return errors.ErrSessionClosed
			}
			s.reportLag(sub)
			frame, err := EncodeEvent(evt)
			if err != nil {
				s.log.Error("Skipping frame", "event", evt.Name(), "error", err)
				continue
			}
			if err := s.write(w, frame, "event"); err != nil {
				return fmt.Errorf("write %s frame: %w", evt.Name(), err)
			}
		case <-s.clock.After(s.heartbeat):
			if err := s.write(w, Heartbeat(), "heartbeat"); err != nil {
				return fmt.Errorf("write heartbeat: %w", err)
			}
		}
	}
}

// write flushes one frame. The first flush moves the session to Streaming.
func (s *Session) write(w contract.FrameWriter, frame contract.Frame, kind string) error {
	if err := w.WriteFrame(frame); err != nil {
		return err
	}
	if s.State() == Subscribed {
		s.setState(Streaming)
	}
	s.metrics.IncFrame(s.Transport, kind)
	return nil
}

func (s *Session) reportLag(sub contract.Subscription) {
	lagged := sub.Lagged()
	if lagged > s.lagged {
		s.log.Warn("Session lagging, events skipped", "skipped", lagged-s.lagged, "total", lagged)
		s.lagged = lagged
	}
}

// Streamer builds sessions sharing one registry, clock and heartbeat.
type Streamer struct {
	log       *slog.Logger
	registry  contract.IRegistry
	clock     clock.Clock
	heartbeat time.Duration
	metrics   *observability.Metrics
}

func NewStreamer(log *slog.Logger, registry contract.IRegistry, clk clock.Clock,
	heartbeat time.Duration, metrics *observability.Metrics) *Streamer {
	if clk == nil {
		clk = clock.WallClock
	}
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeatInterval
	}
	return &Streamer{log: log, registry: registry, clock: clk, heartbeat: heartbeat, metrics: metrics}
}

func (st *Streamer) NewSession(transport string, userID domain.UserID) *Session {
	id := uuid.NewString()
	return &Session{
		ID:        id,
		UserID:    userID,
		Transport: transport,
		log:       st.log.With("session_id", id, "user_id", userID, "transport", transport),
		registry:  st.registry,
		clock:     st.clock,
		heartbeat: st.heartbeat,
		metrics:   st.metrics,
	}
}

// Serve runs a fresh session for userID until ctx ends or w fails.
func (st *Streamer) Serve(ctx context.Context, transport string, userID domain.UserID, w contract.FrameWriter) error {
	return st.NewSession(transport, userID).Run(ctx, w)
}
