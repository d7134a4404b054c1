package domain

import (
	"strings"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/errs"

	"github.com/google/uuid"
)

type UserID = uuid.UUID

type Role string

const (
	RoleCustomer Role = "customer"
	RoleCreator  Role = "creator"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(s)) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleCreator:
		return RoleCreator, nil
	default:
		return "", errs.Invalid("role", "must be one of customer, creator")
	}
}

type Location string

const (
	LocationUK    Location = "UK"
	LocationNepal Location = "Nepal"
)

func ParseLocation(s string) (Location, error) {
	switch Location(strings.TrimSpace(s)) {
	case LocationUK:
		return LocationUK, nil
	case LocationNepal:
		return LocationNepal, nil
	default:
		return "", errs.Invalid("location", "must be one of UK, Nepal")
	}
}

type AuthProvider string

const (
	ProviderPassword AuthProvider = "password"
	ProviderGoogle   AuthProvider = "google"
)

type User struct {
	ID             UserID
	Role           Role
	Email          string
	PasswordHash   string // пусто для федеративных аккаунтов
	FirstName      string
	LastName       string
	UserName       *string
	DateOfBirth    *time.Time
	Description    *string
	ProfilePicture *string
	PrimarySkill   *Skill
	Experience     *int
	Location       *Location
	Provider       AuthProvider
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UserOption func(*User)

func WithNames(first, last string) UserOption {
	return func(u *User) {
		u.FirstName = strings.TrimSpace(first)
		u.LastName = strings.TrimSpace(last)
		u.UserName = DisplayName(u.FirstName, u.LastName)
	}
}

func WithLocation(loc Location) UserOption {
	return func(u *User) {
		u.Location = &loc
	}
}

func WithProvider(p AuthProvider) UserOption {
	return func(u *User) {
		u.Provider = p
	}
}

// NewUser validates identity fields and builds a user with a fresh id.
func NewUser(email, passwordHash string, role Role, now time.Time, opts ...UserOption) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.Invalid("email", "must be a valid email address")
	}
	if role != RoleCustomer && role != RoleCreator {
		return nil, errs.Invalid("role", "must be one of customer, creator")
	}

	u := &User{
		ID:           uuid.New(),
		Role:         role,
		Email:        email,
		PasswordHash: passwordHash,
		Provider:     ProviderPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(u)
	}

	if u.Provider == ProviderPassword && u.PasswordHash == "" {
		return nil, errs.Invalid("password", "is required")
	}

	return u, nil
}

// HasPassword is false for accounts created through federated sign-in.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserName:  u.UserName,
		Email:     u.Email,
	}
}

// UserSummary is the public subset attached to direct messages.
type UserSummary struct {
	ID        UserID
	FirstName string
	LastName  string
	UserName  *string
	Email     string
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DisplayName returns "first last" or nil when both parts are blank.
func DisplayName(first, last string) *string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name == "" {
		return nil
	}

	return &name
}

// SplitName splits a federated display name into first and last parts.
func SplitName(full string) (first, last string) {
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
