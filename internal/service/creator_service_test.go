package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/cwrk-planet/creator-hub/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestCreators_Paging(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 25; i++ {
		f.register(t, fmt.Sprintf("creator%d@example.com", i), domain.RoleCreator)
	}
	for i := 0; i < 5; i++ {
		f.register(t, fmt.Sprintf("customer%d@example.com", i), domain.RoleCustomer)
	}

	svc := NewCreatorService(f.users)
	ctx := context.Background()

	page, err := svc.ListCreators(ctx, 2, 10)
	require.NoError(t, err)
	require.Equal(t, 2, page.Page)
	require.Equal(t, 25, page.Total)
	require.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 10)
	for _, u := range page.Data {
		require.Equal(t, domain.RoleCreator, u.Role)
	}

	last, err := svc.ListCreators(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, last.Data, 5)

	clamped, err := svc.ListCreators(ctx, 0, 500)
	require.NoError(t, err)
	require.Equal(t, 1, clamped.Page)
	require.Equal(t, MaxPageLimit, clamped.Limit)
	require.Len(t, clamped.Data, 25)

	def, err := svc.ListCreators(ctx, 1, 0)
	require.NoError(t, err)
	require.Equal(t, DefaultPageLimit, def.Limit)
}

func TestCreators_HugePageIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.register(t, "creator@example.com", domain.RoleCreator)

	svc := NewCreatorService(f.users)

	for _, limit := range []int{1, 10, MaxPageLimit} {
		page, err := svc.ListCreators(context.Background(), math.MaxInt, limit)
		require.NoError(t, err)
		require.Empty(t, page.Data)
		require.Equal(t, 1, page.Total)
		require.Positive(t, page.Page)
	}
}
