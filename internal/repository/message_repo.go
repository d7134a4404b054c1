package repository

import (
	"context"

	"github.com/cwrk-planet/creator-hub/internal/domain"
)

type RoomMessageRepository interface {
	Append(ctx context.Context, m *domain.RoomMessage) error
	// Recent returns up to limit messages of the room, newest first.
	Recent(ctx context.Context, room string, limit int) ([]domain.RoomMessage, error)
}

type DirectMessageRepository interface {
	// Append fails with ErrInvalidReference when sender or receiver does not exist.
	Append(ctx context.Context, m *domain.DirectMessage) error
	// Thread returns up to limit messages exchanged between a and b, newest first.
	Thread(ctx context.Context, a, b domain.UserID, limit int) ([]domain.DirectMessage, error)
}
