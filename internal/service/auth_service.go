package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/errs"
	"github.com/cwrk-planet/creator-hub/internal/metrics"
	"github.com/cwrk-planet/creator-hub/internal/repository"
	"github.com/cwrk-planet/creator-hub/internal/security"

	"github.com/google/uuid"
)

type TokenIssuer interface {
	Issue(id security.Identity) (string, error)
}

type RegisterInput struct {
	Role            string
	Email           string
	Password        string
	ConfirmPassword *string
	FirstName       string
	LastName        string
	Location        *string
}

type GoogleSignInInput struct {
	Name  string
	Email string
	Role  string
}

type AuthResult struct {
	User  *domain.User
	Token string
}

// MeResult pairs the token identity with the stored record, which may be gone.
type MeResult struct {
	Identity security.Identity
	User     *domain.User
}

type AuthService struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	passPolicy security.BcryptConfig
	now        func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	tokens TokenIssuer,
	passPolicy security.BcryptConfig,
	now func() time.Time,
) *AuthService {
	if now == nil {
		now = time.Now
	}

	return &AuthService{
		users:      users,
		tokens:     tokens,
		passPolicy: passPolicy,
		now:        now,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	var fields []errs.FieldError
	if strings.TrimSpace(in.FirstName) == "" {
		fields = append(fields, errs.FieldError{Field: "firstName", Message: "is required"})
	}
	if strings.TrimSpace(in.LastName) == "" {
		fields = append(fields, errs.FieldError{Field: "lastName", Message: "is required"})
	}
	if in.ConfirmPassword != nil && *in.ConfirmPassword != in.Password {
		fields = append(fields, errs.FieldError{Field: "confirmPassword", Message: "passwords do not match"})
	}
	if len(fields) > 0 {
		return nil, errs.Validation("validation failed", fields...)
	}

	opts := []domain.UserOption{domain.WithNames(in.FirstName, in.LastName)}
	if in.Location != nil && strings.TrimSpace(*in.Location) != "" {
		loc, err := domain.ParseLocation(*in.Location)
		if err != nil {
			return nil, err
		}
		opts = append(opts, domain.WithLocation(loc))
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		slog.Error("auth.register.existsByEmail failed", slog.Any("err", err))
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email already registered: %w", errs.ErrConflict)
	}

	hash, err := security.HashPassword(in.Password, &s.passPolicy)
	if err != nil {
		return nil, err
	}

	u, err := domain.NewUser(in.Email, hash, role, s.now(), opts...)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, u); err != nil {
		if !errors.Is(err, errs.ErrConflict) {
			slog.Error("auth.register.create failed", slog.Any("err", err))
		}
		return nil, err
	}
	metrics.UsersRegistered.WithLabelValues(string(u.Role), string(u.Provider)).Inc()

	token, err := s.issue(u)
	if err != nil {
		slog.Error("auth.register.issueToken failed", slog.Any("err", err))
		return nil, err
	}

	return &AuthResult{User: u, Token: token}, nil
}

// Login never reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.LoginsFailed.Inc()
			return nil, errs.ErrInvalidCredentials
		}
		slog.Error("auth.login.getByEmail failed", slog.Any("err", err))
		return nil, err
	}

	if !u.HasPassword() || !security.VerifyPassword(password, u.PasswordHash) {
		metrics.LoginsFailed.Inc()
		return nil, errs.ErrInvalidCredentials
	}

	token, err := s.issue(u)
	if err != nil {
		slog.Error("auth.login.issueToken failed", slog.Any("err", err))
		return nil, err
	}

	return &AuthResult{User: u, Token: token}, nil
}

// GoogleSignIn signs in an existing account by email or creates a password-less
// one. created reports whether a new account was made.
func (s *AuthService) GoogleSignIn(ctx context.Context, in GoogleSignInInput) (res *AuthResult, created bool, err error) {
	u, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		u, err = s.createFederated(ctx, in)
		if err != nil {
			return nil, false, err
		}
		created = true
	default:
		slog.Error("auth.google.getByEmail failed", slog.Any("err", err))
		return nil, false, err
	}

	token, err := s.issue(u)
	if err != nil {
		slog.Error("auth.google.issueToken failed", slog.Any("err", err))
		return nil, false, err
	}

	return &AuthResult{User: u, Token: token}, created, nil
}

func (s *AuthService) createFederated(ctx context.Context, in GoogleSignInInput) (*domain.User, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	first, last := domain.SplitName(in.Name)
	u, err := domain.NewUser(in.Email, "", role, s.now(),
		domain.WithNames(first, last),
		domain.WithProvider(domain.ProviderGoogle),
	)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			// параллельный вход с тем же email успел создать запись
			return s.users.GetByEmail(ctx, in.Email)
		}
		slog.Error("auth.google.create failed", slog.Any("err", err))
		return nil, err
	}
	metrics.UsersRegistered.WithLabelValues(string(u.Role), string(u.Provider)).Inc()

	return u, nil
}

// Me returns the token identity and, when it still exists, the stored user.
func (s *AuthService) Me(ctx context.Context, id security.Identity) (*MeResult, error) {
	res := &MeResult{Identity: id}

	uid, err := uuid.Parse(id.ID)
	if err != nil {
		return res, nil
	}

	u, err := s.users.GetByID(ctx, uid)
	switch {
	case err == nil:
		res.User = u
	case errors.Is(err, repository.ErrNotFound):
	default:
		slog.Error("auth.me.getByID failed", slog.Any("err", err))
		return nil, err
	}

	return res, nil
}

func (s *AuthService) issue(u *domain.User) (string, error) {
	return s.tokens.Issue(security.Identity{
		ID:    u.ID.String(),
		Email: u.Email,
		Role:  u.Role,
	})
}
