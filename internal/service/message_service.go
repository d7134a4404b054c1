package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/errs"
	"github.com/cwrk-planet/creator-hub/internal/metrics"
	"github.com/cwrk-planet/creator-hub/internal/repository"
	"github.com/cwrk-planet/creator-hub/pkg/logger"

	"github.com/google/uuid"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

type DirectMessageInput struct {
	ReceiverID      string
	Text            string
	Type            string
	ClientMessageID *string
}

type MessageService struct {
	users      repository.UserRepository
	rooms      repository.RoomMessageRepository
	dms        repository.DirectMessageRepository
	maxTextLen int
	now        func() time.Time
}

func NewMessageService(
	users repository.UserRepository,
	rooms repository.RoomMessageRepository,
	dms repository.DirectMessageRepository,
	maxTextLen int,
	now func() time.Time,
) *MessageService {
	if now == nil {
		now = time.Now
	}
	if maxTextLen <= 0 {
		maxTextLen = domain.DefaultMaxTextLen
	}

	return &MessageService{
		users:      users,
		rooms:      rooms,
		dms:        dms,
		maxTextLen: maxTextLen,
		now:        now,
	}
}

// AppendRoomMessage trims and validates the message, then persists it with a
// server timestamp. A blank room means the global room.
func (s *MessageService) AppendRoomMessage(ctx context.Context, room, username, text string) (*domain.RoomMessage, error) {
	m, err := domain.NewRoomMessage(room, username, text, s.maxTextLen, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.rooms.Append(ctx, m); err != nil {
		slog.Error("message.room.append failed", slog.String("room", m.Room), slog.Any("err", err))
		return nil, err
	}
	metrics.RoomMessagesPosted.Inc()

	return m, nil
}

// RecentRoomMessages returns the newest messages of a room in ascending order.
func (s *MessageService) RecentRoomMessages(ctx context.Context, room string, limit int) ([]domain.RoomMessage, error) {
	limit = clampHistory(limit)

	msgs, err := s.rooms.Recent(ctx, domain.RoomOrDefault(room), limit)
	if err != nil {
		return nil, err
	}
	reverse(msgs)

	return msgs, nil
}

// AppendDirectMessage persists a message from sender to in.ReceiverID. The
// receiver must be a valid id of an existing user. The stored message is
// returned with sender/receiver summaries attached when they can be loaded.
func (s *MessageService) AppendDirectMessage(ctx context.Context, sender domain.UserID, in DirectMessageInput) (*domain.DirectMessage, error) {
	receiver, err := uuid.Parse(in.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("receiverId is not a valid id: %w", errs.ErrInvalidReference)
	}

	if _, err := s.users.GetByID(ctx, receiver); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("receiver does not exist: %w", errs.ErrInvalidReference)
		}
		return nil, err
	}

	m, err := domain.NewDirectMessage(sender, receiver, in.Text, in.Type, in.ClientMessageID, s.maxTextLen, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.dms.Append(ctx, m); err != nil {
		if !errors.Is(err, errs.ErrInvalidReference) {
			slog.Error("message.dm.append failed", slog.Any("err", err))
		}
		return nil, err
	}
	metrics.DMsSent.Inc()

	s.enrich(ctx, m)

	return m, nil
}

// DirectThread returns the latest messages between two users, oldest first.
func (s *MessageService) DirectThread(ctx context.Context, userID domain.UserID, peerID string, limit int) ([]domain.DirectMessage, error) {
	peer, err := uuid.Parse(peerID)
	if err != nil {
		return nil, errs.Invalid("userId", "must be a valid id")
	}

	msgs, err := s.dms.Thread(ctx, userID, peer, clampHistory(limit))
	if err != nil {
		return nil, err
	}
	reverse(msgs)

	return msgs, nil
}

func (s *MessageService) enrich(ctx context.Context, m *domain.DirectMessage) {
	sums, err := s.users.Summaries(ctx, m.SenderID, m.ReceiverID)
	if err != nil {
		logger.FromContext(ctx).Warn("message.dm.enrich failed", slog.Any("err", err))
		return
	}

	if v, ok := sums[m.SenderID]; ok {
		m.Sender = &v
	}
	if v, ok := sums[m.ReceiverID]; ok {
		m.Receiver = &v
	}
}

func clampHistory(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}

	return limit
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
