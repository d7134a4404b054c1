package ws

import (
	"encoding/json"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
)

// События сокета
const (
	EventJoinRoom    = "joinRoom"    // client -> server
	EventChatMessage = "chatMessage" // client -> server
	EventNewMessage  = "newMessage"  // server -> всем в комнате
	EventError       = "error"       // server -> только отправителю
)

// Envelope is the outbound frame.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type JoinRoomPayload struct {
	Room string `json:"room"`
}

type ChatMessagePayload struct {
	Room     string `json:"room"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

type NewMessagePayload struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type ErrorPayload struct {
	Event   string `json:"event,omitempty"`
	Message string `json:"message"`
}

func newMessagePayload(m *domain.RoomMessage) NewMessagePayload {
	return NewMessagePayload{
		ID:        m.ID.String(),
		Room:      m.Room,
		Username:  m.Username,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func errorEnvelope(event, msg string) Envelope {
	return Envelope{Event: EventError, Data: ErrorPayload{Event: event, Message: msg}}
}
