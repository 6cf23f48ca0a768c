package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"flocknet/internal/domain"
)

func strptr(s string) *string { return &s }

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newUserFixture(users ...*domain.User) (UserService, *fakeUserRepo, *fakeFollowRepo, *fakeImageStore) {
	userRepo := newFakeUserRepo(users...)
	followRepo := newFakeFollowRepo()
	images := &fakeImageStore{}
	return NewUserService(userRepo, followRepo, images), userRepo, followRepo, images
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newUserFixture()

	user, err := svc.Register(ctx, "Alice A", "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice A", user.FullName)
	assert.Empty(t, user.PasswordHash, "returned user must be scrubbed")
	assert.Empty(t, user.Followers)
	assert.Empty(t, user.Following)

	// the stored credential is a verifiable bcrypt hash
	stored := repo.users[user.ID]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newUserFixture()

	cases := []struct {
		name                              string
		fullName, username, email, passwd string
	}{
		{"missing full name", "", "alice", "alice@example.com", "secret1"},
		{"missing username", "Alice", "", "alice@example.com", "secret1"},
		{"bad email", "Alice", "alice", "not-an-email", "secret1"},
		{"bad email no tld", "Alice", "alice", "a@b", "secret1"},
		{"short password", "Alice", "alice", "alice@example.com", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.fullName, tc.username, tc.email, tc.passwd)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	ctx := context.Background()
	existing := testUser("u1", "alice")
	svc, _, _, _ := newUserFixture(existing)

	_, err := svc.Register(ctx, "Other", "alice", "new@example.com", "secret1")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, "Other", "newname", "alice@example.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	alice := testUser("u1", "alice")
	alice.PasswordHash = hashOf(t, "secret1")
	svc, _, follows, _ := newUserFixture(alice, testUser("u2", "bob"))

	_, err := follows.Toggle(ctx, "u1", "u2")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, []string{"u2"}, user.Following)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// unknown user is indistinguishable from a bad password
	_, err = svc.Authenticate(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetByUsername(t *testing.T) {
	ctx := context.Background()
	svc, _, follows, _ := newUserFixture(testUser("u1", "alice"), testUser("u2", "bob"))

	_, err := follows.Toggle(ctx, "u2", "u1")
	require.NoError(t, err)

	user, err := svc.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, []string{"u2"}, user.Followers)

	_, err = svc.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfileFields(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newUserFixture(testUser("u1", "alice"))

	user, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{
		Bio:      strptr("new bio"),
		Link:     strptr("https://alice.example.com"),
		FullName: strptr("Alice Prime"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new bio", user.Bio)
	assert.Equal(t, "https://alice.example.com", user.Link)
	assert.Equal(t, "Alice Prime", user.FullName)
	assert.Empty(t, user.PasswordHash)

	// untouched fields survive
	assert.Equal(t, "alice", repo.users["u1"].Username)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newUserFixture()

	_, err := svc.UpdateProfile(ctx, "missing", ProfileUpdate{Bio: strptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfilePasswordRules(t *testing.T) {
	ctx := context.Background()
	alice := testUser("u1", "alice")
	alice.PasswordHash = hashOf(t, "secret1")
	svc, repo, _, _ := newUserFixture(alice)

	// one half of the pair is not enough
	_, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{CurrentPassword: strptr("secret1")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.UpdateProfile(ctx, "u1", ProfileUpdate{NewPassword: strptr("secret2")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// wrong current password
	_, err = svc.UpdateProfile(ctx, "u1", ProfileUpdate{
		CurrentPassword: strptr("wrong"),
		NewPassword:     strptr("secret2"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// new password below minimum length
	_, err = svc.UpdateProfile(ctx, "u1", ProfileUpdate{
		CurrentPassword: strptr("secret1"),
		NewPassword:     strptr("short"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// valid change re-hashes the credential
	_, err = svc.UpdateProfile(ctx, "u1", ProfileUpdate{
		CurrentPassword: strptr("secret1"),
		NewPassword:     strptr("secret2"),
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(repo.users["u1"].PasswordHash), []byte("secret2")))
}

func TestUpdateProfileConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newUserFixture(testUser("u1", "alice"), testUser("u2", "bob"))

	_, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{Username: strptr("bob")})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.UpdateProfile(ctx, "u1", ProfileUpdate{Email: strptr("bob@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// keeping your own username is not a conflict
	_, err = svc.UpdateProfile(ctx, "u1", ProfileUpdate{Username: strptr("alice")})
	assert.NoError(t, err)
}

func TestUpdateProfileImages(t *testing.T) {
	ctx := context.Background()
	alice := testUser("u1", "alice")
	alice.ProfileImg = "https://img.example.com/old"
	svc, repo, _, images := newUserFixture(alice)

	// png header bytes, base64 encoded
	dataURI := "data:image/png;base64,iVBORw0KGgo="
	user, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{ProfileImg: &dataURI})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/1", user.ProfileImg)
	assert.Equal(t, []string{"image/png"}, images.uploads)
	assert.Equal(t, []string{"https://img.example.com/old"}, images.deleted,
		"replaced image should be deleted")
	assert.Equal(t, "https://img.example.com/1", repo.users["u1"].ProfileImg)
}

func TestUpdateProfileBadImagePayload(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newUserFixture(testUser("u1", "alice"))

	for _, uri := range []string{
		"not-a-data-uri",
		"data:image/png,unencoded",
		"data:image/png;base64,!!!",
	} {
		_, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{CoverImg: &uri})
		assert.ErrorIs(t, err, ErrInvalidInput, "uri %q", uri)
	}
}

func TestUpdateProfileImagesWithoutStorage(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(testUser("u1", "alice")), newFakeFollowRepo(), nil)

	dataURI := "data:image/png;base64,iVBORw0KGgo="
	_, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{ProfileImg: &dataURI})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDecodeDataURI(t *testing.T) {
	contentType, data, err := decodeDataURI("data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Equal(t, []byte("hello"), data)
}
