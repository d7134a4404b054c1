// Package memory holds map backed repositories used by tests and the
// "memory" storage driver.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/repository"
)

// DB is shared by the repositories so direct messages can check user references.
type DB struct {
	mu       sync.RWMutex
	users    map[domain.UserID]domain.User
	emails   map[string]domain.UserID
	profiles map[domain.UserID]domain.Profile
	rooms    map[string][]domain.RoomMessage
	dms      []domain.DirectMessage
}

func NewDB() *DB {
	return &DB{
		users:    make(map[domain.UserID]domain.User),
		emails:   make(map[string]domain.UserID),
		profiles: make(map[domain.UserID]domain.Profile),
		rooms:    make(map[string][]domain.RoomMessage),
	}
}

type Users struct{ db *DB }

func NewUsers(db *DB) *Users { return &Users{db: db} }

func (r *Users) Create(_ context.Context, u *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.emails[u.Email]; ok {
		return repository.ErrAlreadyExists
	}
	if _, ok := r.db.users[u.ID]; ok {
		return repository.ErrAlreadyExists
	}
	r.db.users[u.ID] = *u
	r.db.emails[u.Email] = u.ID

	return nil
}

func (r *Users) GetByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return &u, nil
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.db.mu.RLock()
	id, ok := r.db.emails[domain.NormalizeEmail(email)]
	r.db.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *Users) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, ok := r.db.emails[domain.NormalizeEmail(email)]
	return ok, nil
}

func (r *Users) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return len(r.db.users), nil
}

func (r *Users) SyncProfile(_ context.Context, p *domain.Profile, now time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[p.UserID]
	if !ok {
		return repository.ErrNotFound
	}
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.UserName = p.UserName
	u.DateOfBirth = p.DateOfBirth
	u.Description = p.Description
	u.ProfilePicture = p.ProfilePicture
	u.PrimarySkill = p.PrimarySkill
	u.Experience = p.Experience
	u.UpdatedAt = now
	r.db.users[p.UserID] = u

	return nil
}

func (r *Users) ListByRole(_ context.Context, role domain.Role, offset, limit int) ([]domain.User, error) {
	r.db.mu.RLock()
	matched := make([]domain.User, 0)
	for _, u := range r.db.users {
		if u.Role == role {
			matched = append(matched, u)
		}
	}
	r.db.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() > matched[j].ID.String()
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset < 0 || limit <= 0 || offset >= len(matched) {
		return []domain.User{}, nil
	}
	end := len(matched)
	if limit < end-offset {
		end = offset + limit
	}

	return matched[offset:end], nil
}

func (r *Users) CountByRole(_ context.Context, role domain.Role) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, u := range r.db.users {
		if u.Role == role {
			n++
		}
	}

	return n, nil
}

func (r *Users) Summaries(_ context.Context, ids ...domain.UserID) (map[domain.UserID]domain.UserSummary, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make(map[domain.UserID]domain.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := r.db.users[id]; ok {
			out[id] = u.Summary()
		}
	}

	return out, nil
}

type Profiles struct{ db *DB }

func NewProfiles(db *DB) *Profiles { return &Profiles{db: db} }

func (r *Profiles) Get(_ context.Context, userID domain.UserID) (*domain.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return &p, nil
}

func (r *Profiles) Upsert(_ context.Context, p *domain.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[p.UserID]; !ok {
		return repository.ErrInvalidReference
	}
	if p.UserName != nil {
		for id, other := range r.db.profiles {
			if id != p.UserID && other.UserName != nil && *other.UserName == *p.UserName {
				return repository.ErrAlreadyExists
			}
		}
	}
	if prev, ok := r.db.profiles[p.UserID]; ok {
		p.CreatedAt = prev.CreatedAt
	}
	r.db.profiles[p.UserID] = *p

	return nil
}

type RoomMessages struct{ db *DB }

func NewRoomMessages(db *DB) *RoomMessages { return &RoomMessages{db: db} }

func (r *RoomMessages) Append(_ context.Context, m *domain.RoomMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.rooms[m.Room] = append(r.db.rooms[m.Room], *m)
	return nil
}

func (r *RoomMessages) Recent(_ context.Context, room string, limit int) ([]domain.RoomMessage, error) {
	r.db.mu.RLock()
	msgs := append([]domain.RoomMessage(nil), r.db.rooms[room]...)
	r.db.mu.RUnlock()

	// stable: равные created_at сохраняют порядок вставки
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })

	out := make([]domain.RoomMessage, 0, limit)
	for i := len(msgs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, msgs[i])
	}

	return out, nil
}

type DirectMessages struct{ db *DB }

func NewDirectMessages(db *DB) *DirectMessages { return &DirectMessages{db: db} }

func (r *DirectMessages) Append(_ context.Context, m *domain.DirectMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[m.SenderID]; !ok {
		return repository.ErrInvalidReference
	}
	if _, ok := r.db.users[m.ReceiverID]; !ok {
		return repository.ErrInvalidReference
	}
	stored := *m
	stored.Sender, stored.Receiver = nil, nil
	r.db.dms = append(r.db.dms, stored)

	return nil
}

func (r *DirectMessages) Thread(_ context.Context, a, b domain.UserID, limit int) ([]domain.DirectMessage, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]domain.DirectMessage, 0, limit)
	for i := len(r.db.dms) - 1; i >= 0 && len(out) < limit; i-- {
		m := r.db.dms[i]
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}

	return out, nil
}
