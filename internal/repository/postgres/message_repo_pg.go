package postgres

import (
	"context"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/repository/queries"
)

type RoomMessageRepo struct {
	q querier
}

func NewRoomMessageRepo(q querier) *RoomMessageRepo {
	return &RoomMessageRepo{q: q}
}

func (r *RoomMessageRepo) Append(ctx context.Context, m *domain.RoomMessage) error {
	_, err := r.q.Exec(ctx, queries.QueryInsertRoomMessage, m.ID, m.Room, m.Username, m.Text, m.CreatedAt)
	return mapPgError(err)
}

func (r *RoomMessageRepo) Recent(ctx context.Context, room string, limit int) ([]domain.RoomMessage, error) {
	rows, err := r.q.Query(ctx, queries.QueryRecentRoomMessages, room, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	out := make([]domain.RoomMessage, 0, limit)
	for rows.Next() {
		var m domain.RoomMessage
		if err := rows.Scan(&m.ID, &m.Room, &m.Username, &m.Text, &m.CreatedAt); err != nil {
			return nil, mapPgError(err)
		}
		out = append(out, m)
	}

	return out, mapPgError(rows.Err())
}

type DirectMessageRepo struct {
	q querier
}

func NewDirectMessageRepo(q querier) *DirectMessageRepo {
	return &DirectMessageRepo{q: q}
}

func (r *DirectMessageRepo) Append(ctx context.Context, m *domain.DirectMessage) error {
	_, err := r.q.Exec(
		ctx,
		queries.QueryInsertDirectMessage,
		m.ID,
		m.SenderID,
		m.ReceiverID,
		m.Text,
		m.Type,
		m.ClientMessageID,
		m.CreatedAt,
	)

	return mapPgError(err)
}

func (r *DirectMessageRepo) Thread(ctx context.Context, a, b domain.UserID, limit int) ([]domain.DirectMessage, error) {
	rows, err := r.q.Query(ctx, queries.QueryDirectThread, a, b, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	out := make([]domain.DirectMessage, 0, limit)
	for rows.Next() {
		var m domain.DirectMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Type, &m.ClientMessageID, &m.CreatedAt); err != nil {
			return nil, mapPgError(err)
		}
		out = append(out, m)
	}

	return out, mapPgError(rows.Err())
}
