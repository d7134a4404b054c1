package service

import (
	"context"
	"math"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type CreatorPage struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	Data       []domain.User
}

type CreatorService struct {
	users repository.UserRepository
}

func NewCreatorService(users repository.UserRepository) *CreatorService {
	return &CreatorService{users: users}
}

// ListCreators pages through creator accounts, newest first. page is clamped
// to [1..MaxInt32/limit] and limit to [1..MaxPageLimit]; a page past the end
// returns empty data.
func (s *CreatorService) ListCreators(ctx context.Context, page, limit int) (*CreatorPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	// (page-1)*limit не должен переполниться
	if maxPage := math.MaxInt32 / limit; page > maxPage {
		page = maxPage
	}

	var (
		items []domain.User
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.users.ListByRole(gctx, domain.RoleCreator, (page-1)*limit, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.users.CountByRole(gctx, domain.RoleCreator)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &CreatorPage{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
		Data:       items,
	}, nil
}
