package repository

import (
	"fmt"

	"github.com/cwrk-planet/creator-hub/internal/errs"
)

// Repository errors wrap the service level sentinels so callers can match either.
var (
	ErrNotFound         = fmt.Errorf("repository: %w", errs.ErrNotFound)
	ErrAlreadyExists    = fmt.Errorf("repository: already exists: %w", errs.ErrConflict)
	ErrInvalidReference = fmt.Errorf("repository: %w", errs.ErrInvalidReference)
)
