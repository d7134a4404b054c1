package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/metrics"
	"github.com/cwrk-planet/creator-hub/internal/security"
	"github.com/cwrk-planet/creator-hub/pkg/httputil"
	"github.com/cwrk-planet/creator-hub/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type TokenVerifier interface {
	Verify(token string) (*security.Identity, error)
}

type Options struct {
	ReadLimit      int64
	PingInterval   time.Duration
	RequireAuth    bool
	AllowedOrigins []string
}

type Server struct {
	upgrader    websocket.Upgrader
	reg         *Registry
	bc          *Broadcaster
	verifier    TokenVerifier
	requireAuth bool

	readLimit int64
	pingEvery time.Duration
}

func NewServer(reg *Registry, bc *Broadcaster, verifier TokenVerifier, opts Options) *Server {
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = 64 << 10
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 15 * time.Second
	}

	return &Server{
		reg:         reg,
		bc:          bc,
		verifier:    verifier,
		requireAuth: opts.RequireAuth,
		readLimit:   opts.ReadLimit,
		pingEvery:   opts.PingInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
	}
}

// GET /ws[?access_token=...]
// Токен необязателен, если не включён requireAuth. Переданный, но невалидный токен всегда 401.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		slog.Warn("ws upgrade failed", slog.Any("err", err))
		return
	}

	c := newWsConn(conn, id)
	ctx := logger.WithContext(r.Context(), logger.FromContext(r.Context()).With(slog.String("conn_id", c.id)))
	metrics.WSConnections.Inc()
	logger.FromContext(ctx).Debug("ws connected", slog.Bool("authenticated", id != nil))

	go s.writeLoop(ctx, c)
	s.readLoop(ctx, c)

	s.reg.LeaveAll(c.id)
	metrics.WSConnections.Dec()
	if err := c.Close(); err != nil {
		logger.FromContext(ctx).Debug("ws close failed", slog.Any("err", err))
	}
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*security.Identity, bool) {
	token := bearer(r)
	if token == "" {
		if s.requireAuth {
			httputil.Error(w, http.StatusUnauthorized, "missing bearer token", nil)
			return nil, false
		}
		return nil, true
	}

	id, err := s.verifier.Verify(token)
	if err != nil {
		httputil.Error(w, http.StatusUnauthorized, "invalid or expired token", nil)
		return nil, false
	}

	return id, true
}

func bearer(r *http.Request) string {
	if t := strings.TrimSpace(r.URL.Query().Get("access_token")); t != "" {
		return t
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	c.conn.SetReadLimit(s.readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.FromContext(ctx).Debug("ws read failed", slog.Any("err", err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))

		s.dispatch(ctx, c, data)
	}
}

// dispatch handles one frame to completion before the next one is read.
func (s *Server) dispatch(ctx context.Context, c *wsConn, data []byte) {
	var in inboundFrame
	if err := json.Unmarshal(data, &in); err != nil || in.Event == "" {
		metrics.WSEvents.WithLabelValues("unknown", "malformed").Inc()
		_ = c.Send(errorEnvelope("", "malformed frame"))
		return
	}

	switch in.Event {
	case EventJoinRoom:
		var p JoinRoomPayload
		if !decodeData(in.Data, &p) {
			metrics.WSEvents.WithLabelValues(in.Event, "malformed").Inc()
			_ = c.Send(errorEnvelope(in.Event, "malformed payload"))
			return
		}
		room := s.reg.Join(c, p.Room)
		metrics.WSEvents.WithLabelValues(in.Event, "ok").Inc()
		logger.FromContext(ctx).Debug("ws joined room", slog.String("room", room))

	case EventChatMessage:
		var p ChatMessagePayload
		if !decodeData(in.Data, &p) {
			metrics.WSEvents.WithLabelValues(in.Event, "malformed").Inc()
			_ = c.Send(errorEnvelope(in.Event, "malformed payload"))
			return
		}
		p.Username = resolveUsername(c.boundName(), strings.TrimSpace(p.Username))
		s.bc.Chat(ctx, c, p)

	default:
		metrics.WSEvents.WithLabelValues("unknown", "rejected").Inc()
		_ = c.Send(errorEnvelope(in.Event, "unknown event"))
	}
}

func decodeData(raw json.RawMessage, dst any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}

	return json.Unmarshal(raw, dst) == nil
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				_ = c.Close()
				return
			}
		case <-ctx.Done():
			_ = c.Close()
			return
		case <-c.closed:
			return
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// --- conn ---

type wsConn struct {
	id       string
	conn     *websocket.Conn
	identity *security.Identity
	sendMu   chan struct{}
	closed   chan struct{}
	stop     sync.Once
}

func newWsConn(c *websocket.Conn, id *security.Identity) *wsConn {
	return &wsConn{
		id:       uuid.NewString(),
		conn:     c,
		identity: id,
		sendMu:   make(chan struct{}, 1),
		closed:   make(chan struct{}),
	}
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Send(env Envelope) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	return c.conn.WriteJSON(env)
}

func (c *wsConn) boundName() string {
	if c.identity == nil {
		return ""
	}

	return c.identity.Email
}

func (c *wsConn) Close() error {
	c.stop.Do(func() { close(c.closed) })

	return c.conn.Close()
}
