package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cwrk-planet/creator-hub/internal/errs"

	"github.com/google/uuid"
)

const (
	DefaultRoom       = "global"
	MessageTypeText   = "text"
	DefaultMaxTextLen = 4000
)

type RoomMessage struct {
	ID        uuid.UUID
	Room      string
	Username  string
	Text      string
	CreatedAt time.Time
}

// RoomOrDefault maps a blank room name to the global room.
func RoomOrDefault(room string) string {
	room = strings.TrimSpace(room)
	if room == "" {
		return DefaultRoom
	}

	return room
}

func NewRoomMessage(room, username, text string, maxLen int, now time.Time) (*RoomMessage, error) {
	username = strings.TrimSpace(username)
	text = strings.TrimSpace(text)

	var fields []errs.FieldError
	if username == "" {
		fields = append(fields, errs.FieldError{Field: "username", Message: "is required"})
	}
	if text == "" {
		fields = append(fields, errs.FieldError{Field: "text", Message: "must not be empty"})
	}
	if err := checkLen(text, maxLen); err != nil {
		fields = append(fields, *err)
	}
	if len(fields) > 0 {
		return nil, errs.Validation("invalid message", fields...)
	}

	return &RoomMessage{
		ID:        uuid.New(),
		Room:      RoomOrDefault(room),
		Username:  username,
		Text:      text,
		CreatedAt: now,
	}, nil
}

type DirectMessage struct {
	ID              uuid.UUID
	SenderID        UserID
	ReceiverID      UserID
	Text            string
	Type            string
	ClientMessageID *string
	CreatedAt       time.Time

	// заполняются при обогащении, могут остаться nil
	Sender   *UserSummary
	Receiver *UserSummary
}

func NewDirectMessage(sender, receiver UserID, text, msgType string, clientID *string, maxLen int, now time.Time) (*DirectMessage, error) {
	text = strings.TrimSpace(text)
	msgType = strings.TrimSpace(msgType)
	if msgType == "" {
		msgType = MessageTypeText
	}

	var fields []errs.FieldError
	if text == "" {
		fields = append(fields, errs.FieldError{Field: "text", Message: "must not be empty"})
	}
	if err := checkLen(text, maxLen); err != nil {
		fields = append(fields, *err)
	}
	if msgType != MessageTypeText {
		fields = append(fields, errs.FieldError{Field: "type", Message: "must be text"})
	}
	if len(fields) > 0 {
		return nil, errs.Validation("invalid message", fields...)
	}

	if clientID != nil {
		trimmed := strings.TrimSpace(*clientID)
		if trimmed == "" {
			clientID = nil
		} else {
			clientID = &trimmed
		}
	}

	return &DirectMessage{
		ID:              uuid.New(),
		SenderID:        sender,
		ReceiverID:      receiver,
		Text:            text,
		Type:            msgType,
		ClientMessageID: clientID,
		CreatedAt:       now,
	}, nil
}

func checkLen(text string, maxLen int) *errs.FieldError {
	if maxLen <= 0 {
		maxLen = DefaultMaxTextLen
	}
	if utf8.RuneCountInString(text) > maxLen {
		return &errs.FieldError{Field: "text", Message: "message too long"}
	}

	return nil
}
