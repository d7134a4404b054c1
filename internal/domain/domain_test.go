package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Alice@Example.COM ", "hash", RoleCreator, now, WithNames(" Alice ", "Smith"))
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email)
	require.Equal(t, "Alice", u.FirstName)
	require.NotNil(t, u.UserName)
	require.Equal(t, "Alice Smith", *u.UserName)
	require.Equal(t, ProviderPassword, u.Provider)
	require.True(t, u.HasPassword())

	_, err = NewUser("nope", "hash", RoleCreator, now)
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = NewUser("a@b.c", "", RoleCustomer, now)
	require.ErrorIs(t, err, errs.ErrValidation)

	g, err := NewUser("g@b.c", "", RoleCustomer, now, WithProvider(ProviderGoogle))
	require.NoError(t, err)
	require.False(t, g.HasPassword())
}

func TestParseEnums(t *testing.T) {
	_, err := ParseRole("admin")
	require.ErrorIs(t, err, errs.ErrValidation)

	r, err := ParseRole("creator")
	require.NoError(t, err)
	require.Equal(t, RoleCreator, r)

	_, err = ParseLocation("France")
	require.ErrorIs(t, err, errs.ErrValidation)

	s, err := ParseSkill("Photo Creation")
	require.NoError(t, err)
	require.Equal(t, SkillPhoto, s)
}

func TestSplitName(t *testing.T) {
	f, l := SplitName("Ada  King Lovelace")
	require.Equal(t, "Ada", f)
	require.Equal(t, "King Lovelace", l)

	f, l = SplitName("Prince")
	require.Equal(t, "Prince", f)
	require.Empty(t, l)
}

func TestNewRoomMessage(t *testing.T) {
	m, err := NewRoomMessage("", "  bob ", "  hello  ", 0, now)
	require.NoError(t, err)
	require.Equal(t, DefaultRoom, m.Room)
	require.Equal(t, "bob", m.Username)
	require.Equal(t, "hello", m.Text)

	_, err = NewRoomMessage("global", "bob", "   ", 0, now)
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = NewRoomMessage("global", "", "hi", 0, now)
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = NewRoomMessage("global", "bob", strings.Repeat("x", 11), 10, now)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestNewDirectMessage(t *testing.T) {
	blank := "  "
	m, err := NewDirectMessage(uuid.New(), uuid.New(), " hey ", "", &blank, 0, now)
	require.NoError(t, err)
	require.Equal(t, MessageTypeText, m.Type)
	require.Equal(t, "hey", m.Text)
	require.Nil(t, m.ClientMessageID)

	_, err = NewDirectMessage(uuid.New(), uuid.New(), "hey", "image", nil, 0, now)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestProfileApply(t *testing.T) {
	first, last := "Jo", "Doe"
	exp := 3
	pr := &Profile{UserID: uuid.New(), FirstName: "Old", LastName: "Name"}

	pr.Apply(ProfilePatch{FirstName: &first}, now)
	require.Equal(t, "Jo", pr.FirstName)
	require.Nil(t, pr.UserName)

	pr.Apply(ProfilePatch{FirstName: &first, LastName: &last, Experience: &exp}, now)
	require.Equal(t, "Jo Doe", *pr.UserName)
	require.Equal(t, 3, *pr.Experience)
	require.Equal(t, now, pr.UpdatedAt)

	require.True(t, ProfilePatch{}.IsEmpty())

	zero := 0
	require.ErrorIs(t, ProfilePatch{Experience: &zero}.Validate(), errs.ErrValidation)
}
