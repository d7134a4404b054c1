package ws

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/errs"
	"github.com/cwrk-planet/creator-hub/internal/metrics"
	"github.com/cwrk-planet/creator-hub/pkg/logger"
)

const anonymousUser = "anonymous"

type MessageAppender interface {
	AppendRoomMessage(ctx context.Context, room, username, text string) (*domain.RoomMessage, error)
}

// Broadcaster persists chat messages and then fans them out. Nothing is
// delivered when persistence fails; the error goes back to the sender only.
type Broadcaster struct {
	messages MessageAppender
	fanout   Fanout
}

func NewBroadcaster(messages MessageAppender, fanout Fanout) *Broadcaster {
	return &Broadcaster{messages: messages, fanout: fanout}
}

func (b *Broadcaster) Chat(ctx context.Context, sender Conn, p ChatMessagePayload) {
	m, err := b.messages.AppendRoomMessage(ctx, p.Room, p.Username, p.Text)
	if err != nil {
		metrics.WSEvents.WithLabelValues(EventChatMessage, "rejected").Inc()
		_ = sender.Send(errorEnvelope(EventChatMessage, chatErrorMessage(err)))
		return
	}

	if err := b.fanout.Publish(ctx, newMessagePayload(m)); err != nil {
		// сообщение уже сохранено, рассылка best-effort
		metrics.WSEvents.WithLabelValues(EventChatMessage, "fanout_failed").Inc()
		logger.FromContext(ctx).Warn("ws.chat.fanout failed", slog.String("room", m.Room), slog.Any("err", err))
		return
	}
	metrics.WSEvents.WithLabelValues(EventChatMessage, "ok").Inc()
}

func chatErrorMessage(err error) string {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}

	return "failed to save message"
}

// resolveUsername: bound identity first, then the claimed name, then anonymous.
func resolveUsername(bound, claimed string) string {
	if bound != "" {
		return bound
	}
	if claimed != "" {
		return claimed
	}

	return anonymousUser
}
