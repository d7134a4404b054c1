package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cwrk-planet/creator-hub/internal/errs"
	"github.com/cwrk-planet/creator-hub/internal/repository"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapPgError(t *testing.T) {
	require.NoError(t, mapPgError(nil))

	err := mapPgError(fmt.Errorf("scan: %w", pgx.ErrNoRows))
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, err, errs.ErrNotFound)

	err = mapPgError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
	require.ErrorIs(t, err, errs.ErrConflict)

	err = mapPgError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})
	require.ErrorIs(t, err, errs.ErrInvalidReference)

	other := errors.New("connection reset")
	require.Equal(t, other, mapPgError(other))
}

func TestUserBulkSource(t *testing.T) {
	src := &userBulk{idx: -1}
	require.False(t, src.Next())
	require.NoError(t, src.Err())
}
