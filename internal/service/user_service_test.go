package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStorage records presign and delete requests.
type fakeStorage struct {
	keys      []string
	deleted   []string
	deleteErr error
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	f.keys = append(f.keys, key)
	return "https://uploads.example.com/" + key + "?sig=1", nil
}

func (f *fakeStorage) ObjectURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.deleteErr
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMember(t, "Ann", "ann@example.com")
	userID := m.Member.UserID

	name := "  Annie "
	avatar := "https://cdn.example.com/a.png"
	user, err := env.users.UpdateProfile(ctx, userID, ProfileUpdate{Name: &name, Avatar: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Annie", user.Name)
	assert.Equal(t, avatar, user.Avatar)
	assert.Empty(t, user.PasswordHash)

	password := "newsecret"
	_, err = env.users.UpdateProfile(ctx, userID, ProfileUpdate{Password: &password})
	require.NoError(t, err)
	_, err = env.auth.Login(ctx, "ann@example.com", "newsecret")
	assert.NoError(t, err)

	unchanged, err := env.users.UpdateProfile(ctx, userID, ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Annie", unchanged.Name)
}

func TestUpdateProfile_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMember(t, "Ann", "ann@example.com")

	short, badURL, weak := "A", "not a url", "12345"
	for _, update := range []ProfileUpdate{{Name: &short}, {Avatar: &badURL}, {Password: &weak}} {
		_, err := env.users.UpdateProfile(ctx, m.Member.UserID, update)
		assert.ErrorIs(t, err, ErrValidation)
	}

	name := "Bob"
	_, err := env.users.UpdateProfile(ctx, primitive.NewObjectID(), ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = env.users.GetProfile(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAvatarUploadURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	_, err := env.users.AvatarUploadURL(ctx, userID, "image/png")
	assert.ErrorIs(t, err, ErrUploadsDisabled)

	files := &fakeStorage{}
	svc := NewUserService(env.repos.Users, files, time.Minute)

	_, err = svc.AvatarUploadURL(ctx, userID, "application/pdf")
	assert.ErrorIs(t, err, ErrValidation)

	upload, err := svc.AvatarUploadURL(ctx, userID, "image/png")
	require.NoError(t, err)
	require.Len(t, files.keys, 1)
	assert.Equal(t, files.keys[0], upload.ObjectKey)
	assert.Contains(t, upload.ObjectKey, "avatars/"+userID.Hex()+"/")
	assert.Equal(t, "https://cdn.example.com/"+upload.ObjectKey, upload.AvatarURL)
	assert.WithinDuration(t, time.Now().Add(time.Minute), upload.ExpiresAt, 5*time.Second)
}

func TestUpdateProfile_RemovesReplacedAvatar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMember(t, "Ann", "ann@example.com")
	userID := m.Member.UserID
	files := &fakeStorage{}
	svc := NewUserService(env.repos.Users, files, time.Minute)

	first := "https://cdn.example.com/avatars/" + userID.Hex() + "/a.png"
	_, err := svc.UpdateProfile(ctx, userID, ProfileUpdate{Avatar: &first})
	require.NoError(t, err)
	assert.Empty(t, files.deleted, "nothing to replace yet")

	second := "https://cdn.example.com/avatars/" + userID.Hex() + "/b.png"
	_, err = svc.UpdateProfile(ctx, userID, ProfileUpdate{Avatar: &second})
	require.NoError(t, err)
	assert.Equal(t, []string{"avatars/" + userID.Hex() + "/a.png"}, files.deleted)

	// Same avatar again: nothing is removed.
	_, err = svc.UpdateProfile(ctx, userID, ProfileUpdate{Avatar: &second})
	require.NoError(t, err)
	assert.Len(t, files.deleted, 1)

	// Externally hosted avatars are never touched.
	external := "https://gravatar.example.org/ann.png"
	_, err = svc.UpdateProfile(ctx, userID, ProfileUpdate{Avatar: &external})
	require.NoError(t, err)
	require.Len(t, files.deleted, 2)
	third := "https://cdn.example.com/avatars/" + userID.Hex() + "/c.png"
	_, err = svc.UpdateProfile(ctx, userID, ProfileUpdate{Avatar: &third})
	require.NoError(t, err)
	assert.Len(t, files.deleted, 2)

	// A failed delete does not fail the update.
	files.deleteErr = errors.New("bucket unavailable")
	fourth := "https://cdn.example.com/avatars/" + userID.Hex() + "/d.png"
	user, err := svc.UpdateProfile(ctx, userID, ProfileUpdate{Avatar: &fourth})
	require.NoError(t, err)
	assert.Equal(t, fourth, user.Avatar)
	assert.Len(t, files.deleted, 3)
}

func TestUpdateProfile_AvatarMustBeHTTPURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMember(t, "Ann", "ann@example.com")

	for _, raw := range []string{"", "   ", "ftp://example.com/a.png", "/relative/a.png", "https://"} {
		avatar := raw
		_, err := env.users.UpdateProfile(ctx, m.Member.UserID, ProfileUpdate{Avatar: &avatar})
		assert.ErrorIs(t, err, ErrValidation, raw)
	}
}
