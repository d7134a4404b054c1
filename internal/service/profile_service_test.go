package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/errs"
	"github.com/cwrk-planet/creator-hub/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var pngPixel, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func strp(s string) *string { return &s }

func newProfileFixture(t *testing.T) (*fixture, *failingUsers, *memory.Profiles, *recordingUploader, *ProfileService) {
	f := newFixture(t)
	users := &failingUsers{Users: f.users}
	profiles := memory.NewProfiles(f.db)
	up := &recordingUploader{}
	svc := NewProfileService(users, profiles, up, "profile-pictures", 5<<20, f.clock.Now)
	return f, users, profiles, up, svc
}

func TestProfile_EmptyUpdateRejected(t *testing.T) {
	f, _, _, _, svc := newProfileFixture(t)
	u := f.register(t, "p@example.com", domain.RoleCreator)

	_, err := svc.UpdateProfile(context.Background(), u.ID, ProfileUpdate{})
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Contains(t, err.Error(), "No fields provided to update.")
}

func TestProfile_UpdateNamesAndSync(t *testing.T) {
	f, _, profiles, _, svc := newProfileFixture(t)
	ctx := context.Background()
	u := f.register(t, "p@example.com", domain.RoleCreator)
	exp := 4
	skill := domain.SkillVideo

	p, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Patch: domain.ProfilePatch{
		FirstName:    strp("Sita"),
		LastName:     strp("Gurung"),
		Experience:   &exp,
		PrimarySkill: &skill,
	}})
	require.NoError(t, err)
	require.Equal(t, "Sita Gurung", *p.UserName)

	stored, err := profiles.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 4, *stored.Experience)

	synced, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Sita", synced.FirstName)
	require.Equal(t, domain.SkillVideo, *synced.PrimarySkill)
}

func TestProfile_SyncFailureIsSwallowed(t *testing.T) {
	f, users, profiles, _, svc := newProfileFixture(t)
	ctx := context.Background()
	u := f.register(t, "p@example.com", domain.RoleCreator)
	users.syncErr = errBoom

	_, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Patch: domain.ProfilePatch{Description: strp("hello")}})
	require.NoError(t, err)

	stored, err := profiles.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "hello", *stored.Description)

	orig, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, orig.Description)
}

func TestProfile_PicturePrecedence(t *testing.T) {
	f, _, _, up, svc := newProfileFixture(t)
	ctx := context.Background()
	u := f.register(t, "p@example.com", domain.RoleCreator)

	remote := "https://images.example.com/me.jpg"
	p, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Picture: &remote})
	require.NoError(t, err)
	require.Equal(t, remote, *p.ProfilePicture)
	require.Empty(t, up.keys)

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngPixel)
	p, err = svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Picture: &dataURL})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.test/profile-pictures/user_"+u.ID.String()+".png", *p.ProfilePicture)

	// файл важнее строки
	p, err = svc.UpdateProfile(ctx, u.ID, ProfileUpdate{PictureFile: pngPixel, Picture: &remote})
	require.NoError(t, err)
	require.NotEqual(t, remote, *p.ProfilePicture)
	require.Len(t, up.keys, 2)
}

func TestProfile_UploadFailureWritesNothing(t *testing.T) {
	f, _, profiles, up, svc := newProfileFixture(t)
	ctx := context.Background()
	u := f.register(t, "p@example.com", domain.RoleCreator)
	up.err = errBoom

	_, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{
		Patch:       domain.ProfilePatch{Description: strp("bio")},
		PictureFile: pngPixel,
	})
	require.ErrorIs(t, err, errs.ErrUpstream)

	_, err = profiles.Get(ctx, u.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProfile_InvalidImageRejected(t *testing.T) {
	f, _, _, up, svc := newProfileFixture(t)
	u := f.register(t, "p@example.com", domain.RoleCreator)

	_, err := svc.UpdateProfile(context.Background(), u.ID, ProfileUpdate{Picture: strp("not base64 at all!")})
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Empty(t, up.keys)
}

func TestProfile_UserNameConflict(t *testing.T) {
	f, _, _, _, svc := newProfileFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com", domain.RoleCreator)
	b := f.register(t, "b@example.com", domain.RoleCreator)

	same := ProfileUpdate{Patch: domain.ProfilePatch{FirstName: strp("Same"), LastName: strp("Name")}}
	_, err := svc.UpdateProfile(ctx, a.ID, same)
	require.NoError(t, err)
	_, err = svc.UpdateProfile(ctx, b.ID, same)
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestProfile_GetFallsBackToUser(t *testing.T) {
	f, _, _, _, svc := newProfileFixture(t)
	ctx := context.Background()
	u := f.register(t, "p@example.com", domain.RoleCreator)

	p, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.FirstName, p.FirstName)

	_, err = svc.GetProfile(ctx, uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)
}
