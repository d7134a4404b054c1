package ws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"

	"github.com/stretchr/testify/require"
)

type stubAppender struct {
	err   error
	calls int
}

func (s *stubAppender) AppendRoomMessage(_ context.Context, room, username, text string) (*domain.RoomMessage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return domain.NewRoomMessage(room, username, text, 0, time.Now())
}

type recordingFanout struct {
	published []NewMessagePayload
	err       error
}

func (f *recordingFanout) Publish(_ context.Context, msg NewMessagePayload) error {
	f.published = append(f.published, msg)
	return f.err
}

func TestBroadcaster_PersistThenFanout(t *testing.T) {
	app := &stubAppender{}
	fan := &recordingFanout{}
	sender := newFakeConn("s")

	NewBroadcaster(app, fan).Chat(context.Background(), sender, ChatMessagePayload{Username: "ann", Text: " hi "})

	require.Equal(t, 1, app.calls)
	require.Len(t, fan.published, 1)
	require.Equal(t, "global", fan.published[0].Room)
	require.Equal(t, "hi", fan.published[0].Text)
	require.Empty(t, sender.received())
}

func TestBroadcaster_PersistFailureGoesToSenderOnly(t *testing.T) {
	app := &stubAppender{err: errors.New("db down")}
	fan := &recordingFanout{}
	sender := newFakeConn("s")

	NewBroadcaster(app, fan).Chat(context.Background(), sender, ChatMessagePayload{Username: "ann", Text: "hi"})

	require.Empty(t, fan.published)
	got := sender.received()
	require.Len(t, got, 1)
	require.Equal(t, EventError, got[0].Event)
	require.Equal(t, "failed to save message", got[0].Data.(ErrorPayload).Message)
}

func TestBroadcaster_BlankTextRejected(t *testing.T) {
	app := &stubAppender{}
	fan := &recordingFanout{}
	sender := newFakeConn("s")

	NewBroadcaster(app, fan).Chat(context.Background(), sender, ChatMessagePayload{Username: "ann", Text: "   "})

	require.Empty(t, fan.published)
	got := sender.received()
	require.Len(t, got, 1)
	require.Contains(t, got[0].Data.(ErrorPayload).Message, "text")
}

func TestResolveUsername(t *testing.T) {
	require.Equal(t, "a@example.com", resolveUsername("a@example.com", "mallory"))
	require.Equal(t, "mallory", resolveUsername("", "mallory"))
	require.Equal(t, "anonymous", resolveUsername("", ""))
}
