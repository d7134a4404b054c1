package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/errs"
	"github.com/cwrk-planet/creator-hub/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMessages_RecentIsAscendingAndCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		_, err := f.messages.AppendRoomMessage(ctx, "", "bob", fmt.Sprintf("m%02d", i))
		require.NoError(t, err)
	}
	_, err := f.messages.AppendRoomMessage(ctx, "other", "bob", "elsewhere")
	require.NoError(t, err)

	got, err := f.messages.RecentRoomMessages(ctx, "global", 0)
	require.NoError(t, err)
	require.Len(t, got, 50)
	require.Equal(t, "m10", got[0].Text)
	require.Equal(t, "m59", got[49].Text)
	for i := 1; i < len(got); i++ {
		require.False(t, got[i].CreatedAt.Before(got[i-1].CreatedAt))
	}
}

func TestMessages_RoomValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.messages.AppendRoomMessage(ctx, "global", "bob", "   ")
	require.ErrorIs(t, err, errs.ErrValidation)

	m, err := f.messages.AppendRoomMessage(ctx, "  ", " bob ", "  hi ")
	require.NoError(t, err)
	require.Equal(t, domain.DefaultRoom, m.Room)
	require.Equal(t, "hi", m.Text)

	got, err := f.messages.RecentRoomMessages(ctx, "global", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestMessages_DirectInvalidReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sender := f.register(t, "s@example.com", domain.RoleCustomer)

	_, err := f.messages.AppendDirectMessage(ctx, sender.ID, DirectMessageInput{ReceiverID: "not-an-id", Text: "hi"})
	require.ErrorIs(t, err, errs.ErrInvalidReference)

	ghost := uuid.New()
	_, err = f.messages.AppendDirectMessage(ctx, sender.ID, DirectMessageInput{ReceiverID: ghost.String(), Text: "hi"})
	require.ErrorIs(t, err, errs.ErrInvalidReference)

	thread, err := f.messages.DirectThread(ctx, sender.ID, ghost.String(), 0)
	require.NoError(t, err)
	require.Empty(t, thread)
}

func TestMessages_DirectEnrichedAndThread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com", domain.RoleCustomer)
	b := f.register(t, "b@example.com", domain.RoleCreator)

	m, err := f.messages.AppendDirectMessage(ctx, a.ID, DirectMessageInput{ReceiverID: b.ID.String(), Text: " hello ", ClientMessageID: strp("c-1")})
	require.NoError(t, err)
	require.Equal(t, a.ID, m.SenderID)
	require.Equal(t, domain.MessageTypeText, m.Type)
	require.Equal(t, "c-1", *m.ClientMessageID)
	require.NotNil(t, m.Sender)
	require.Equal(t, "a@example.com", m.Sender.Email)
	require.NotNil(t, m.Receiver)
	require.Equal(t, "b@example.com", m.Receiver.Email)

	_, err = f.messages.AppendDirectMessage(ctx, b.ID, DirectMessageInput{ReceiverID: a.ID.String(), Text: "reply"})
	require.NoError(t, err)

	thread, err := f.messages.DirectThread(ctx, a.ID, b.ID.String(), 10)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	require.Equal(t, "hello", thread[0].Text)
	require.Equal(t, "reply", thread[1].Text)

	_, err = f.messages.AppendDirectMessage(ctx, a.ID, DirectMessageInput{ReceiverID: b.ID.String(), Text: "  "})
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestMessages_EnrichmentFailureReturnsRaw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com", domain.RoleCustomer)
	b := f.register(t, "b@example.com", domain.RoleCreator)

	users := &failingUsers{Users: f.users, summariesErr: errBoom}
	svc := NewMessageService(users, memory.NewRoomMessages(f.db), memory.NewDirectMessages(f.db), 0, f.clock.Now)

	m, err := svc.AppendDirectMessage(ctx, a.ID, DirectMessageInput{ReceiverID: b.ID.String(), Text: "hi"})
	require.NoError(t, err)
	require.Nil(t, m.Sender)
	require.Nil(t, m.Receiver)
	require.Equal(t, "hi", m.Text)
}
