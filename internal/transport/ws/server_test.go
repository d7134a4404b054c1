package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/repository/memory"
	"github.com/cwrk-planet/creator-hub/internal/security"
	"github.com/cwrk-planet/creator-hub/internal/service"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type wsFixture struct {
	reg    *Registry
	msgs   *service.MessageService
	tokens *security.TokenService
	srv    *httptest.Server
}

func newWSFixture(t *testing.T, opts Options) *wsFixture {
	t.Helper()

	db := memory.NewDB()
	users := memory.NewUsers(db)
	msgs := service.NewMessageService(users, memory.NewRoomMessages(db), memory.NewDirectMessages(db), 0, nil)
	tokens, err := security.NewTokenService("ws-test-secret", 0)
	require.NoError(t, err)

	reg := NewRegistry()
	s := NewServer(reg, NewBroadcaster(msgs, NewLocalFanout(reg)), tokens, opts)

	f := &wsFixture{reg: reg, msgs: msgs, tokens: tokens, srv: httptest.NewServer(s)}
	t.Cleanup(f.srv.Close)

	return f
}

func (f *wsFixture) dial(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func send(t *testing.T, c *websocket.Conn, event string, data any) {
	t.Helper()
	require.NoError(t, c.WriteJSON(map[string]any{"event": event, "data": data}))
}

func read(t *testing.T, c *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, c.ReadJSON(&f))
	return f
}

func requireSilent(t *testing.T, c *websocket.Conn) {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	var f frame
	err := c.ReadJSON(&f)
	require.Error(t, err, "unexpected frame %s", f.Event)
}

func (f *wsFixture) waitMembers(t *testing.T, room string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return len(f.reg.Members(room)) == n }, 2*time.Second, 10*time.Millisecond)
}

func TestServer_RoomIsolation(t *testing.T) {
	f := newWSFixture(t, Options{})
	x := f.dial(t, "")
	y := f.dial(t, "")

	send(t, x, EventJoinRoom, map[string]string{"room": "global"})
	send(t, y, EventJoinRoom, map[string]string{"room": "other"})
	f.waitMembers(t, "global", 1)
	f.waitMembers(t, "other", 1)

	send(t, x, EventChatMessage, map[string]string{"text": "hi"})

	got := read(t, x)
	require.Equal(t, EventNewMessage, got.Event)
	var msg NewMessagePayload
	require.NoError(t, json.Unmarshal(got.Data, &msg))
	require.Equal(t, "global", msg.Room)
	require.Equal(t, "hi", msg.Text)
	require.Equal(t, "anonymous", msg.Username)
	require.NotEmpty(t, msg.ID)

	requireSilent(t, y)

	history, err := f.msgs.RecentRoomMessages(context.Background(), "global", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestServer_BroadcastReachesAllMembersIncludingSender(t *testing.T) {
	f := newWSFixture(t, Options{})
	a := f.dial(t, "")
	b := f.dial(t, "")
	outsider := f.dial(t, "")

	send(t, a, EventJoinRoom, map[string]string{"room": "alpha"})
	send(t, b, EventJoinRoom, map[string]string{"room": "alpha"})
	send(t, outsider, EventJoinRoom, map[string]string{"room": "beta"})
	f.waitMembers(t, "alpha", 2)
	f.waitMembers(t, "beta", 1)

	send(t, b, EventChatMessage, map[string]string{"room": "alpha", "username": "bob", "text": "yo"})

	for _, c := range []*websocket.Conn{a, b} {
		got := read(t, c)
		require.Equal(t, EventNewMessage, got.Event)
		var msg NewMessagePayload
		require.NoError(t, json.Unmarshal(got.Data, &msg))
		require.Equal(t, "bob", msg.Username)
		require.Equal(t, "alpha", msg.Room)
	}
	requireSilent(t, outsider)
}

func TestServer_MalformedAndInvalidFramesGoToSenderOnly(t *testing.T) {
	f := newWSFixture(t, Options{})
	x := f.dial(t, "")
	y := f.dial(t, "")
	send(t, x, EventJoinRoom, nil)
	send(t, y, EventJoinRoom, nil)
	f.waitMembers(t, "global", 2)

	require.NoError(t, x.WriteMessage(websocket.TextMessage, []byte("{not json")))
	got := read(t, x)
	require.Equal(t, EventError, got.Event)

	send(t, x, "dance", nil)
	got = read(t, x)
	require.Equal(t, EventError, got.Event)

	send(t, x, EventChatMessage, map[string]string{"username": "x", "text": "   "})
	got = read(t, x)
	require.Equal(t, EventError, got.Event)
	var p ErrorPayload
	require.NoError(t, json.Unmarshal(got.Data, &p))
	require.Equal(t, EventChatMessage, p.Event)

	requireSilent(t, y)

	history, err := f.msgs.RecentRoomMessages(context.Background(), "global", 0)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestServer_BoundIdentityOverridesUsername(t *testing.T) {
	f := newWSFixture(t, Options{})
	token, err := f.tokens.Issue(security.Identity{ID: "u1", Email: "ann@example.com", Role: domain.RoleCreator})
	require.NoError(t, err)

	c := f.dial(t, "?access_token="+token)
	send(t, c, EventJoinRoom, map[string]string{"room": "global"})
	f.waitMembers(t, "global", 1)
	send(t, c, EventChatMessage, map[string]string{"username": "mallory", "text": "hello"})

	got := read(t, c)
	var msg NewMessagePayload
	require.NoError(t, json.Unmarshal(got.Data, &msg))
	require.Equal(t, "ann@example.com", msg.Username)
}

func TestServer_AuthRequired(t *testing.T) {
	f := newWSFixture(t, Options{RequireAuth: true})
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?access_token=garbage", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := f.tokens.Issue(security.Identity{ID: "u1", Email: "a@example.com", Role: domain.RoleCustomer})
	require.NoError(t, err)
	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer "+token)
	conn, resp, err := websocket.DefaultDialer.Dial(url, hdr)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	_ = conn.Close()
}

func TestServer_OversizedFrameClosesOnlyThatConnection(t *testing.T) {
	f := newWSFixture(t, Options{ReadLimit: 512})
	big := f.dial(t, "")
	other := f.dial(t, "")
	send(t, big, EventJoinRoom, nil)
	send(t, other, EventJoinRoom, nil)
	f.waitMembers(t, "global", 2)

	send(t, big, EventChatMessage, map[string]string{"text": strings.Repeat("x", 2048)})

	require.NoError(t, big.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := big.ReadMessage()
	require.Error(t, err)
	f.waitMembers(t, "global", 1)

	send(t, other, EventChatMessage, map[string]string{"text": "still here"})
	got := read(t, other)
	require.Equal(t, EventNewMessage, got.Event)
}

func TestServer_DisconnectLeavesRooms(t *testing.T) {
	f := newWSFixture(t, Options{})
	c := f.dial(t, "")
	send(t, c, EventJoinRoom, map[string]string{"room": "alpha"})
	f.waitMembers(t, "alpha", 1)

	require.NoError(t, c.Close())
	f.waitMembers(t, "alpha", 0)
}
