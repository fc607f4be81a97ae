package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"match-handler/applog"
	"match-handler/game"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const tickDialTimeout = 5 * time.Second

var ErrTickStreamClosed = errors.New("tick stream closed")

// TickStream keeps the freshest packet published on the bridge websocket.
// Each witness gets a packet at most once per frame.
type TickStream struct {
	url    string
	dialer *websocket.Dialer

	mu      sync.Mutex
	conn    *websocket.Conn
	closed  bool
	latest  *game.Packet
	frame   uint64
	seen    map[int]uint64
	updated chan struct{}
}

func NewTickStream(url string) *TickStream {
	return &TickStream{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: tickDialTimeout,
		},
		seen:    make(map[int]uint64),
		updated: make(chan struct{}),
	}
}

func (s *TickStream) ensureConnected(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrTickStreamClosed
	}
	if s.conn != nil {
		return nil
	}

	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to subscribe to ticks at %s: %w", s.url, err)
	}

	applog.Debug("Subscribed to tick stream", zap.String("url", s.url))
	s.conn = conn
	go s.listen(conn)
	return nil
}

func (s *TickStream) listen(conn *websocket.Conn) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			s.disconnect(conn, err)
			return
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		var packet game.Packet
		if err := json.Unmarshal(data, &packet); err != nil {
			applog.Warn("Dropping malformed tick", zap.Error(err))
			continue
		}

		s.mu.Lock()
		s.latest = &packet
		s.frame++
		close(s.updated)
		s.updated = make(chan struct{})
		s.mu.Unlock()
	}
}

func (s *TickStream) disconnect(conn *websocket.Conn, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == conn {
		s.conn = nil
	}
	_ = conn.Close()

	if !s.closed && !websocket.IsCloseError(cause, websocket.CloseNormalClosure) {
		applog.Warn("Tick stream disconnected", zap.Error(cause))
	}
}

// Fresh returns a packet the witness has not seen yet, waiting up to timeout.
// On timeout the last known packet is returned again, or an empty one before the first tick.
func (s *TickStream) Fresh(ctx context.Context, timeout time.Duration, witnessId int) (*game.Packet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureConnected(ctx); err != nil {
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		s.mu.Lock()
		if s.latest != nil && s.frame > s.seen[witnessId] {
			s.seen[witnessId] = s.frame
			packet := s.latest
			s.mu.Unlock()
			return packet, nil
		}
		wait := s.updated
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return s.lastKnown(), nil
		case <-wait:
		}
	}
}

func (s *TickStream) lastKnown() *game.Packet {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest == nil {
		return &game.Packet{}
	}
	return s.latest
}

func (s *TickStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.conn == nil {
		return nil
	}

	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	err := s.conn.Close()
	s.conn = nil
	return err
}
