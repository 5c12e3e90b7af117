/*
Package realtime implements the presence-aware delivery core.

This file defines the WebSocket-backed Session. The read loop consumes
lifecycle signals (setup, join chat, typing, stop typing); the write pump
drains the outbound queue and keeps the heartbeat alive. Outbound pushes are
non-blocking: a full queue means a dead or stuck client, and the frame is
dropped rather than stalling the dispatcher.
*/
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"linkup/internal/pkg/logx"
)

const (
	// writeWait is the timeout for a single write to the connection.
	writeWait = 10 * time.Second

	// pongWait is how long the server waits for a Pong before declaring the
	// connection dead.
	pongWait = 60 * time.Second

	// pingPeriod is the heartbeat interval. Must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxSignalSize caps inbound frames. Lifecycle signals are tiny; large
	// payloads never travel client-to-server on this socket.
	maxSignalSize = 4096

	// sendQueueSize is the outbound buffer per session.
	sendQueueSize = 256
)

// WSSession is a live WebSocket connection implementing Session.
type WSSession struct {
	id string

	conn *websocket.Conn

	registry   *Registry
	dispatcher *Dispatcher

	// authIdentity is the user id proven by the connection's token. The
	// session stays unbound until the client sends its setup signal.
	authIdentity string

	mu       sync.Mutex
	identity string

	send chan []byte
	done chan struct{}

	closeOnce sync.Once

	logger zerolog.Logger
}

// NewWSSession wraps an upgraded connection. authIdentity is the user id the
// transport authenticated; binding to the registry happens when the client
// sends "setup".
func NewWSSession(conn *websocket.Conn, authIdentity string, registry *Registry, dispatcher *Dispatcher) *WSSession {
	id := uuid.New().String()

	logger := logx.Logger().With().
		Str("session_id", id).
		Str("user_id", authIdentity).
		Logger()

	return &WSSession{
		id:           id,
		conn:         conn,
		registry:     registry,
		dispatcher:   dispatcher,
		authIdentity: authIdentity,
		send:         make(chan []byte, sendQueueSize),
		done:         make(chan struct{}),
		logger:       logger,
	}
}

// ID returns the unique id of this connection.
func (s *WSSession) ID() string {
	return s.id
}

// Identity returns the bound user id, or "" before setup.
func (s *WSSession) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.identity
}

// Push queues a frame for delivery. Never blocks; frames to a closed session
// or past a full queue are dropped and the durable store remains the source
// of truth for the client's next fetch.
func (s *WSSession) Push(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error().Err(err).Str("event", frame.Event).Msg("Error marshaling frame for push")
		return
	}

	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.send <- data:
	default:
		s.logger.Warn().
			Str("event", frame.Event).
			Int("queue_len", len(s.send)).
			Msg("Session send queue full, dropping frame")
	}
}

// Close terminates the session: unregisters it from every room, stops the
// write pump, and closes the connection. Safe to call more than once.
func (s *WSSession) Close() {
	s.closeOnce.Do(func() {
		s.registry.Unregister(s)
		close(s.done)

		if s.conn != nil {
			if err := s.conn.Close(); err != nil {
				s.logger.Debug().Err(err).Msg("Connection close error")
			}
		}

		s.logger.Info().Msg("Session closed.")
	})
}

// ReadPump consumes lifecycle signals until the connection drops, then
// cleans up. Runs on the handler goroutine.
func (s *WSSession) ReadPump() {
	defer s.Close()

	s.conn.SetReadLimit(maxSignalSize)

	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Info().Err(err).Msg("Error reading signal (client close/going away)")
			}
			break
		}

		s.handleSignal(data)
	}
}

// handleSignal parses one inbound frame and applies the lifecycle signal.
func (s *WSSession) handleSignal(data []byte) {
	var signal struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload,omitempty"`
	}

	if err := json.Unmarshal(data, &signal); err != nil {
		s.logger.Warn().Err(err).Bytes("signal_bytes", data).Msg("Client sent invalid JSON signal")
		return
	}

	switch signal.Event {
	case SignalSetup:
		s.handleSetup()

	case SignalJoinChat:
		s.handleJoinChat(signal.Payload)

	case SignalTyping:
		s.handleTyping(signal.Payload, true)

	case SignalStopTyping:
		s.handleTyping(signal.Payload, false)

	default:
		s.logger.Warn().Str("signal", signal.Event).Msg("Client sent unsupported signal")
	}
}

// handleSetup binds the session to its authenticated identity, joins the
// personal channel, and acks with "connected". Idempotent.
func (s *WSSession) handleSetup() {
	s.mu.Lock()
	s.identity = s.authIdentity
	s.mu.Unlock()

	s.registry.Register(s.authIdentity, s)

	s.Push(Frame{Event: EventConnected})

	s.logger.Info().Msg("Session bound to personal channel.")
}

// handleJoinChat subscribes the session to a chat room. The payload is the
// room id as a JSON string, as the clients have always sent it.
func (s *WSSession) handleJoinChat(payload json.RawMessage) {
	if !s.bound() {
		s.logger.Warn().Msg("Ignoring join chat from unbound session")
		return
	}

	roomID, ok := s.roomIDFrom(payload, SignalJoinChat)
	if !ok {
		return
	}

	s.registry.JoinRoom(s, roomID)

	s.logger.Info().Str("room_id", roomID).Msg("Session joined chat room.")
}

// handleTyping rebroadcasts a typing indicator to the room.
func (s *WSSession) handleTyping(payload json.RawMessage, started bool) {
	if !s.bound() {
		s.logger.Warn().Msg("Ignoring typing signal from unbound session")
		return
	}

	signal := SignalTyping
	if !started {
		signal = SignalStopTyping
	}

	roomID, ok := s.roomIDFrom(payload, signal)
	if !ok {
		return
	}

	if started {
		ev, err := TypingStartedEvent(roomID)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Dropping malformed typing signal")
			return
		}
		s.dispatcher.DispatchTypingStarted(ev, s)
		return
	}

	ev, err := TypingStoppedEvent(roomID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Dropping malformed stop typing signal")
		return
	}
	s.dispatcher.DispatchTypingStopped(ev, s)
}

func (s *WSSession) bound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.identity != ""
}

func (s *WSSession) roomIDFrom(payload json.RawMessage, signal string) (string, bool) {
	var roomID string
	if err := json.Unmarshal(payload, &roomID); err != nil || roomID == "" {
		s.logger.Warn().Str("signal", signal).Msg("Signal carried no room id")
		return "", false
	}

	return roomID, true
}

// WritePump drains the send queue to the connection and keeps the heartbeat
// alive. Runs on its own goroutine; exits when the session closes or a write
// fails.
func (s *WSSession) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case data := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Error().Err(err).Msg("Error writing frame")
				return
			}

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Error().Err(err).Msg("Error writing ping")
				return
			}

		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				s.logger.Debug().Err(err).Msg("Error writing close message")
			}
			return
		}
	}
}
