package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/errs"
	"github.com/cwrk-planet/creator-hub/internal/repository"
	"github.com/cwrk-planet/creator-hub/internal/storage"
	"github.com/cwrk-planet/creator-hub/pkg/logger"
)

// ProfileUpdate is a partial update. The picture may arrive as an uploaded
// file or as a string holding a data URL, raw base64 or an http(s) URL.
type ProfileUpdate struct {
	Patch       domain.ProfilePatch
	PictureFile []byte
	Picture     *string
}

type ProfileService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	uploader storage.Uploader
	folder   string
	maxBytes int64
	now      func() time.Time
}

func NewProfileService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	uploader storage.Uploader,
	folder string,
	maxBytes int64,
	now func() time.Time,
) *ProfileService {
	if now == nil {
		now = time.Now
	}
	if folder == "" {
		folder = "profile-pictures"
	}

	return &ProfileService{
		users:    users,
		profiles: profiles,
		uploader: uploader,
		folder:   folder,
		maxBytes: maxBytes,
		now:      now,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID domain.UserID) (*domain.Profile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// профиль ещё не создавался, отдаём поля из users
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p = domain.ProfileFromUser(u)
	p.CreatedAt, p.UpdatedAt = u.CreatedAt, u.UpdatedAt

	return p, nil
}

// UpdateProfile writes the profile (primary) and then mirrors the fields onto
// the user record. The mirror write is best effort: its failure is logged only.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID domain.UserID, upd ProfileUpdate) (*domain.Profile, error) {
	patch := upd.Patch
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	hasPicture := len(upd.PictureFile) > 0 || (upd.Picture != nil && strings.TrimSpace(*upd.Picture) != "")
	if patch.IsEmpty() && !hasPicture {
		return nil, errs.Validation("No fields provided to update.")
	}

	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if hasPicture {
		url, err := s.resolvePicture(ctx, userID, upd)
		if err != nil {
			return nil, err
		}
		patch.ProfilePicture = &url
	}

	now := s.now()
	current.Apply(patch, now)

	if err := s.profiles.Upsert(ctx, current); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, fmt.Errorf("userName already taken: %w", errs.ErrConflict)
		}
		slog.Error("profile.update.upsert failed", slog.Any("err", err))
		return nil, err
	}

	if err := s.users.SyncProfile(ctx, current, now); err != nil {
		logger.FromContext(ctx).Warn("profile.update.syncUser failed",
			slog.String("user_id", userID.String()),
			slog.Any("err", err),
		)
	}

	return current, nil
}

// resolvePicture: file > base64/data URL > remote URL passthrough.
func (s *ProfileService) resolvePicture(ctx context.Context, userID domain.UserID, upd ProfileUpdate) (string, error) {
	var (
		img *storage.Image
		err error
	)

	switch {
	case len(upd.PictureFile) > 0:
		img, err = storage.SniffImage(upd.PictureFile, s.maxBytes)
	case storage.IsRemoteURL(*upd.Picture):
		return strings.TrimSpace(*upd.Picture), nil
	default:
		img, err = storage.DecodeImage(*upd.Picture, s.maxBytes)
	}
	if err != nil {
		return "", err
	}

	key := path.Join(s.folder, "user_"+userID.String())
	url, err := s.uploader.Upload(ctx, key, img)
	if err != nil {
		slog.Error("profile.update.upload failed", slog.String("key", key), slog.Any("err", err))
		return "", fmt.Errorf("image upload failed: %w", errs.ErrUpstream)
	}

	return url, nil
}
