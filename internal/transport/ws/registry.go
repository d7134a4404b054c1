package ws

import (
	"sort"
	"sync"

	"github.com/cwrk-planet/creator-hub/internal/domain"
)

type Conn interface {
	ID() string
	Send(env Envelope) error
}

// Registry tracks which connections are joined to which rooms on this
// instance. Rooms are plain grouping keys and exist while they have members.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Conn     // room -> conn id -> conn
	joined map[string]map[string]struct{} // conn id -> rooms
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]map[string]Conn),
		joined: make(map[string]map[string]struct{}),
	}
}

// Join adds c to room and returns the resolved room name. A blank room means
// the global room. Joining twice is a no-op.
func (r *Registry) Join(c Conn, room string) string {
	room = domain.RoomOrDefault(room)

	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]Conn)
		r.rooms[room] = members
	}
	members[c.ID()] = c

	rooms, ok := r.joined[c.ID()]
	if !ok {
		rooms = make(map[string]struct{})
		r.joined[c.ID()] = rooms
	}
	rooms[room] = struct{}{}

	return room
}

// LeaveAll removes the connection from every room it joined.
func (r *Registry) LeaveAll(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.joined[connID] {
		if members, ok := r.rooms[room]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(r.rooms, room)
			}
		}
	}
	delete(r.joined, connID)
}

// Members returns a snapshot of the connections joined to room.
func (r *Registry) Members(room string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[room]
	out := make([]Conn, 0, len(members))
	for _, c := range members {
		out = append(out, c)
	}

	return out
}

// Rooms lists the rooms a connection has joined, sorted.
func (r *Registry) Rooms(connID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.joined[connID]))
	for room := range r.joined[connID] {
		out = append(out, room)
	}
	sort.Strings(out)

	return out
}

// Broadcast delivers env to every member of room and returns how many sends
// succeeded. Sends happen outside the lock, a slow peer never blocks joins.
func (r *Registry) Broadcast(room string, env Envelope) int {
	delivered := 0
	for _, c := range r.Members(room) {
		if err := c.Send(env); err == nil {
			delivered++
		}
	}

	return delivered
}
