package ws

import "context"

// Fanout delivers a stored message to every connection joined to its room.
type Fanout interface {
	Publish(ctx context.Context, msg NewMessagePayload) error
}

// LocalFanout delivers through this instance's registry only.
type LocalFanout struct {
	reg *Registry
}

func NewLocalFanout(reg *Registry) *LocalFanout {
	return &LocalFanout{reg: reg}
}

func (f *LocalFanout) Publish(_ context.Context, msg NewMessagePayload) error {
	f.reg.Broadcast(msg.Room, Envelope{Event: EventNewMessage, Data: msg})
	return nil
}
