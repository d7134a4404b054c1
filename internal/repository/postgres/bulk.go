package postgres

import (
	"context"
	"fmt"

	"github.com/cwrk-planet/creator-hub/internal/domain"

	"github.com/jackc/pgx/v5"
)

type copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var (
	userCopyColumns = []string{
		"id", "role", "email", "password_hash", "first_name", "last_name", "user_name", "date_of_birth",
		"description", "profile_picture", "primary_skill", "experience", "location", "auth_provider",
		"created_at", "updated_at",
	}
	profileCopyColumns = []string{
		"user_id", "first_name", "last_name", "user_name", "date_of_birth", "description",
		"profile_picture", "primary_skill", "experience", "created_at", "updated_at",
	}
)

// userBulk streams users into COPY without materialising [][]any.
type userBulk struct {
	rows []domain.User
	idx  int
}

func (b *userBulk) Next() bool {
	b.idx++
	return b.idx < len(b.rows)
}

func (b *userBulk) Values() ([]any, error) {
	u := b.rows[b.idx]
	var location *string
	if u.Location != nil {
		l := string(*u.Location)
		location = &l
	}

	return []any{
		u.ID, string(u.Role), u.Email, nullIfEmpty(u.PasswordHash), u.FirstName, u.LastName, u.UserName,
		u.DateOfBirth, u.Description, u.ProfilePicture, skillArg(u.PrimarySkill), intArg(u.Experience),
		location, string(u.Provider), u.CreatedAt, u.UpdatedAt,
	}, nil
}

func (b *userBulk) Err() error { return nil }

type profileBulk struct {
	rows []domain.Profile
	idx  int
}

func (b *profileBulk) Next() bool {
	b.idx++
	return b.idx < len(b.rows)
}

func (b *profileBulk) Values() ([]any, error) {
	p := b.rows[b.idx]
	return []any{
		p.UserID, p.FirstName, p.LastName, p.UserName, p.DateOfBirth, p.Description,
		p.ProfilePicture, skillArg(p.PrimarySkill), intArg(p.Experience), p.CreatedAt, p.UpdatedAt,
	}, nil
}

func (b *profileBulk) Err() error { return nil }

// BulkInsertUsers loads users and their profiles with COPY inside one transaction.
func BulkInsertUsers(ctx context.Context, db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}, users []domain.User, profiles []domain.Profile) (int64, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := copyUsers(ctx, tx, users)
	if err != nil {
		return 0, err
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"user_profiles"}, profileCopyColumns, &profileBulk{rows: profiles, idx: -1}); err != nil {
		return 0, fmt.Errorf("copy profiles: %w", mapPgError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return n, nil
}

func copyUsers(ctx context.Context, c copier, users []domain.User) (int64, error) {
	n, err := c.CopyFrom(ctx, pgx.Identifier{"users"}, userCopyColumns, &userBulk{rows: users, idx: -1})
	if err != nil {
		return 0, fmt.Errorf("copy users: %w", mapPgError(err))
	}

	return n, nil
}
