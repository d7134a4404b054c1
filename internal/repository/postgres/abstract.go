package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/repository"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx so repositories can run
// inside a transaction when a caller needs atomicity.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return repository.ErrAlreadyExists
		case pgerrcode.ForeignKeyViolation:
			return repository.ErrInvalidReference
		}
	}

	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u          domain.User
		role       string
		skill      *string
		location   *string
		provider   string
		passHash   *string
		dob        *time.Time
		experience *int32
	)

	err := row.Scan(
		&u.ID,
		&role,
		&u.Email,
		&passHash,
		&u.FirstName,
		&u.LastName,
		&u.UserName,
		&dob,
		&u.Description,
		&u.ProfilePicture,
		&skill,
		&experience,
		&location,
		&provider,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}

	u.Role = domain.Role(role)
	u.Provider = domain.AuthProvider(provider)
	u.DateOfBirth = dob
	u.PrimarySkill = skillPtr(skill)
	u.Experience = intPtr(experience)
	if passHash != nil {
		u.PasswordHash = *passHash
	}
	if location != nil {
		loc := domain.Location(*location)
		u.Location = &loc
	}

	return &u, nil
}

func skillPtr(s *string) *domain.Skill {
	if s == nil {
		return nil
	}
	v := domain.Skill(*s)
	return &v
}

func skillArg(s *domain.Skill) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func intPtr(i *int32) *int {
	if i == nil {
		return nil
	}
	v := int(*i)
	return &v
}

func intArg(i *int) *int32 {
	if i == nil {
		return nil
	}
	v := int32(*i)
	return &v
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
