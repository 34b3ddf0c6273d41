// Package motion provides the gravity sources that steer the ball: simulated
// tilt from the keyboard, a phone relayed over WebSocket, and "none".
package motion

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tilt-maze/internal/core"
)

//go:embed static
var staticFS embed.FS

// Relay errors.
var (
	ErrCodeInUse   = errors.New("motion: pairing code already in use")
	ErrInvalidCode = errors.New("motion: invalid pairing code")
)

const (
	writeWait       = 10 * time.Second
	maxMessageBytes = 4 << 10
	peerSendBuffer  = 16
)

// Observer receives relay activity, typically for metrics.
type Observer interface {
	PhoneConnected()
	PhoneDisconnected()
	ReadingReceived()
}

// Hub relays phone device-motion readings to game sessions by pairing code.
// A code is opened by exactly one game session; any number of phones may
// stream into it, the newest reading wins.
type Hub struct {
	mu       sync.Mutex
	channels map[string]*channel

	logger       *log.Logger
	observer     Observer
	now          func() time.Time
	pingInterval time.Duration
	readTimeout  time.Duration
	upgrader     websocket.Upgrader
}

type channel struct {
	reading core.Gravity
	at      time.Time
	have    bool
	peers   map[*peer]struct{}
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(l *log.Logger) HubOption {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithObserver reports relay activity to o.
func WithObserver(o Observer) HubOption {
	return func(h *Hub) { h.observer = o }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) HubOption {
	return func(h *Hub) { h.now = now }
}

// WithKeepalive sets the ping interval and the read timeout.
func WithKeepalive(ping, read time.Duration) HubOption {
	return func(h *Hub) {
		if ping > 0 {
			h.pingInterval = ping
		}
		if read > 0 {
			h.readTimeout = read
		}
	}
}

// NewHub creates an empty relay.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		channels:     make(map[string]*channel),
		logger:       log.New(io.Discard),
		now:          time.Now,
		pingInterval: 25 * time.Second,
		readTimeout:  60 * time.Second,
		upgrader: websocket.Upgrader{
			// The phone page may be served from another origin during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewCode returns a pairing code that is not currently open.
func (h *Hub) NewCode() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	for {
		code := generateCode(CodeLength)
		if _, exists := h.channels[code]; !exists {
			return code
		}
	}
}

// Open claims code for a game session.
func (h *Hub) Open(code string) error {
	code = NormalizeCode(code)
	if !ValidCode(code) {
		return fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.channels[code]; exists {
		return fmt.Errorf("%w: %s", ErrCodeInUse, code)
	}
	h.channels[code] = &channel{peers: make(map[*peer]struct{})}
	h.logger.Debug("pairing code opened", "code", code)
	return nil
}

// Latest returns the newest reading for code.
func (h *Hub) Latest(code string) (core.Gravity, time.Time, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[NormalizeCode(code)]
	if !ok || !ch.have {
		return core.Gravity{}, time.Time{}, false
	}
	return ch.reading, ch.at, true
}

// Close releases code and disconnects its phones.
func (h *Hub) Close(code string) {
	code = NormalizeCode(code)

	h.mu.Lock()
	ch, ok := h.channels[code]
	delete(h.channels, code)
	h.mu.Unlock()

	if !ok {
		return
	}
	for p := range ch.peers {
		p.close()
	}
	h.logger.Debug("pairing code closed", "code", code)
}

// Notify pushes a game event to every phone paired with code.
// Slow phones miss events rather than stall the game.
func (h *Hub) Notify(code string, ev Event) {
	b, err := Encode(MsgEvent, ev)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[NormalizeCode(code)]
	if !ok {
		return
	}
	for p := range ch.peers {
		p.enqueue(b)
	}
}

// Handler serves the phone page at / and the WebSocket endpoint at /ws.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	page, err := fs.Sub(staticFS, "static")
	if err == nil {
		mux.Handle("/", http.FileServer(http.FS(page)))
	}
	mux.HandleFunc("/ws", h.serveWS)
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	conn.SetReadLimit(maxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	})

	code, err := h.handshake(conn)
	if err != nil {
		h.logger.Info("phone rejected", "remote", r.RemoteAddr, "error", err)
		h.reject(conn, err)
		return
	}

	p := newPeer(conn)
	if err := h.attach(code, p); err != nil {
		h.logger.Info("phone rejected", "remote", r.RemoteAddr, "code", code, "error", err)
		h.reject(conn, err)
		return
	}
	go p.writeLoop(h.pingInterval)

	if h.observer != nil {
		h.observer.PhoneConnected()
		defer h.observer.PhoneDisconnected()
	}
	h.logger.Info("phone paired", "remote", r.RemoteAddr, "code", code)

	if b, encErr := Encode(MsgWelcome, Welcome{Code: code, Hz: SampleHz}); encErr == nil {
		p.enqueue(b)
	}

	h.readLoop(code, p)

	h.detach(code, p)
	p.close()
	h.logger.Info("phone disconnected", "remote", r.RemoteAddr, "code", code)
}

// handshake reads the hello message and returns the requested code.
func (h *Hub) handshake(conn *websocket.Conn) (string, error) {
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("motion: read hello: %w", err)
	}
	env, err := DecodeEnvelope(msg)
	if err != nil {
		return "", err
	}
	if env.T != MsgHello {
		return "", fmt.Errorf("motion: expected %q, got %q", MsgHello, env.T)
	}
	hello, err := DecodePayload[Hello](env)
	if err != nil {
		return "", err
	}
	if hello.V != ProtocolVersion {
		return "", fmt.Errorf("motion: unsupported protocol version %d", hello.V)
	}
	code := NormalizeCode(hello.Code)
	if !ValidCode(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, hello.Code)
	}
	return code, nil
}

func (h *Hub) reject(conn *websocket.Conn, reason error) {
	if b, err := Encode(MsgError, ErrorMsg{Reason: reason.Error()}); err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.TextMessage, b)
	}
	_ = conn.Close()
}

func (h *Hub) readLoop(code string, p *peer) {
	for {
		_, msg, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = p.conn.SetReadDeadline(time.Now().Add(h.readTimeout))

		env, err := DecodeEnvelope(msg)
		if err != nil || env.T != MsgGravity {
			continue
		}
		reading, err := DecodePayload[GravityReading](env)
		if err != nil {
			continue
		}
		if g, ok := reading.Gravity(); ok {
			h.store(code, g)
		}
	}
}

func (h *Hub) attach(code string, p *peer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[code]
	if !ok {
		return fmt.Errorf("motion: no game is waiting for code %s", code)
	}
	ch.peers[p] = struct{}{}
	return nil
}

func (h *Hub) detach(code string, p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.channels[code]; ok {
		delete(ch.peers, p)
	}
}

func (h *Hub) store(code string, g core.Gravity) {
	h.mu.Lock()
	ch, ok := h.channels[code]
	if ok {
		ch.reading = g
		ch.at = h.now()
		ch.have = true
	}
	h.mu.Unlock()

	if ok && h.observer != nil {
		h.observer.ReadingReceived()
	}
}

// peer is one phone connection. Only writeLoop writes to conn.
type peer struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newPeer(conn *websocket.Conn) *peer {
	return &peer{
		conn: conn,
		send: make(chan []byte, peerSendBuffer),
		done: make(chan struct{}),
	}
}

func (p *peer) enqueue(b []byte) {
	select {
	case <-p.done:
	case p.send <- b:
	default:
	}
}

func (p *peer) close() {
	p.once.Do(func() { close(p.done) })
}

func (p *peer) writeLoop(ping time.Duration) {
	ticker := time.NewTicker(ping)
	defer func() {
		ticker.Stop()
		_ = p.conn.Close()
	}()

	for {
		select {
		case b := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-p.done:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game ended")
			_ = p.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}
