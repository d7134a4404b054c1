package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func mustUser(t *testing.T, users *Users, email string, role domain.Role, at time.Time) *domain.User {
	t.Helper()
	u, err := domain.NewUser(email, "hash", role, at, domain.WithNames("F", email))
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestUsers_CreateDuplicateEmail(t *testing.T) {
	db := NewDB()
	users := NewUsers(db)
	ctx := context.Background()

	mustUser(t, users, "a@example.com", domain.RoleCustomer, time.Now())

	dup, err := domain.NewUser("A@example.com", "hash", domain.RoleCreator, time.Now())
	require.NoError(t, err)
	require.ErrorIs(t, users.Create(ctx, dup), errs.ErrConflict)

	ok, err := users.ExistsByEmail(ctx, " a@EXAMPLE.com")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUsers_ListByRolePaging(t *testing.T) {
	db := NewDB()
	users := NewUsers(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		mustUser(t, users, uuid.NewString()+"@c.io", domain.RoleCreator, base.Add(time.Duration(i)*time.Minute))
	}
	mustUser(t, users, "cust@c.io", domain.RoleCustomer, base)

	page, err := users.ListByRole(ctx, domain.RoleCreator, 3, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	empty, err := users.ListByRole(ctx, domain.RoleCreator, 10, 2)
	require.NoError(t, err)
	require.Empty(t, empty)

	for _, offset := range []int{-100, -1} {
		neg, err := users.ListByRole(ctx, domain.RoleCreator, offset, 100)
		require.NoError(t, err)
		require.Empty(t, neg)
	}

	tail, err := users.ListByRole(ctx, domain.RoleCreator, 4, math.MaxInt)
	require.NoError(t, err)
	require.Len(t, tail, 1)

	n, err := users.CountByRole(ctx, domain.RoleCreator)
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestRoomMessages_RecentNewestFirst(t *testing.T) {
	rooms := NewRoomMessages(NewDB())
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 4; i++ {
		m, err := domain.NewRoomMessage("global", "u", string(rune('a'+i)), 0, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		require.NoError(t, rooms.Append(ctx, m))
	}

	got, err := rooms.Recent(ctx, "global", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "d", got[0].Text)
	require.Equal(t, "b", got[2].Text)
}

func TestDirectMessages_InvalidReference(t *testing.T) {
	db := NewDB()
	users := NewUsers(db)
	dms := NewDirectMessages(db)
	ctx := context.Background()

	a := mustUser(t, users, "a@c.io", domain.RoleCustomer, time.Now())

	m, err := domain.NewDirectMessage(a.ID, uuid.New(), "hi", "", nil, 0, time.Now())
	require.NoError(t, err)
	require.ErrorIs(t, dms.Append(ctx, m), errs.ErrInvalidReference)

	thread, err := dms.Thread(ctx, a.ID, m.ReceiverID, 10)
	require.NoError(t, err)
	require.Empty(t, thread)
}

func TestProfiles_UserNameConflict(t *testing.T) {
	db := NewDB()
	users := NewUsers(db)
	profiles := NewProfiles(db)
	ctx := context.Background()

	a := mustUser(t, users, "a@c.io", domain.RoleCreator, time.Now())
	b := mustUser(t, users, "b@c.io", domain.RoleCreator, time.Now())

	name := "Same Name"
	require.NoError(t, profiles.Upsert(ctx, &domain.Profile{UserID: a.ID, UserName: &name}))
	require.ErrorIs(t, profiles.Upsert(ctx, &domain.Profile{UserID: b.ID, UserName: &name}), errs.ErrConflict)
	require.NoError(t, profiles.Upsert(ctx, &domain.Profile{UserID: a.ID, UserName: &name}))
}
