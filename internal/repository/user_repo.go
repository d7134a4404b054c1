package repository

import (
	"context"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int, error)

	// SyncProfile copies profile fields onto the user record.
	SyncProfile(ctx context.Context, p *domain.Profile, now time.Time) error

	ListByRole(ctx context.Context, role domain.Role, offset, limit int) ([]domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int, error)

	Summaries(ctx context.Context, ids ...domain.UserID) (map[domain.UserID]domain.UserSummary, error)
}

type ProfileRepository interface {
	Get(ctx context.Context, userID domain.UserID) (*domain.Profile, error)
	Upsert(ctx context.Context, p *domain.Profile) error
}
