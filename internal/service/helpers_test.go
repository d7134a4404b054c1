package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/repository/memory"
	"github.com/cwrk-planet/creator-hub/internal/security"
	"github.com/cwrk-planet/creator-hub/internal/storage"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errBoom = errors.New("boom")

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

// Now advances one millisecond per call so records get distinct timestamps.
func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

type fixture struct {
	db       *memory.DB
	users    *memory.Users
	clock    *clock
	tokens   *security.TokenService
	auth     *AuthService
	messages *MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := memory.NewDB()
	users := memory.NewUsers(db)
	clk := newClock()

	tokens, err := security.NewTokenService("service-test-secret", 0)
	require.NoError(t, err)

	return &fixture{
		db:       db,
		users:    users,
		clock:    clk,
		tokens:   tokens,
		auth:     NewAuthService(users, tokens, security.BcryptConfig{Cost: bcrypt.MinCost}, clk.Now),
		messages: NewMessageService(users, memory.NewRoomMessages(db), memory.NewDirectMessages(db), 0, clk.Now),
	}
}

func (f *fixture) register(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Role:      string(role),
		Email:     email,
		Password:  "password123",
		FirstName: "Test",
		LastName:  email,
	})
	require.NoError(t, err)
	return res.User
}

// failingUsers wraps a repository and injects errors into selected methods.
type failingUsers struct {
	*memory.Users
	syncErr      error
	summariesErr error
}

func (f *failingUsers) SyncProfile(ctx context.Context, p *domain.Profile, now time.Time) error {
	if f.syncErr != nil {
		return f.syncErr
	}
	return f.Users.SyncProfile(ctx, p, now)
}

func (f *failingUsers) Summaries(ctx context.Context, ids ...domain.UserID) (map[domain.UserID]domain.UserSummary, error) {
	if f.summariesErr != nil {
		return nil, f.summariesErr
	}
	return f.Users.Summaries(ctx, ids...)
}

type recordingUploader struct {
	keys []string
	err  error
}

func (u *recordingUploader) Upload(_ context.Context, key string, img *storage.Image) (string, error) {
	u.keys = append(u.keys, key)
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.test/" + key + "." + img.Ext(), nil
}
