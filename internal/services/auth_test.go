package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	tokens map[string]*firebase.IdentityToken
}

func (f *fakeIdentity) VerifyIDToken(_ context.Context, idToken string) (*firebase.IdentityToken, error) {
	if tok, ok := f.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("token rejected")
}

func registerReq(email, username string) *models.RegisterRequest {
	return &models.RegisterRequest{
		Email:     email,
		Password:  "secret123",
		FirstName: "Jane",
		LastName:  "Doe",
		Username:  username,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	user, pair, err := env.auth.Register(env.ctx, registerReq("Jane@Example.com", "jane"))
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := env.tokens.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = env.auth.Register(env.ctx, registerReq("jane@example.com", "other"))
	assert.ErrorIs(t, err, models.ErrConflict)
	_, _, err = env.auth.Register(env.ctx, registerReq("second@example.com", "jane"))
	assert.ErrorIs(t, err, models.ErrConflict)

	logged, _, err := env.auth.Login(env.ctx, &models.LoginRequest{Email: "JANE@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, _, err = env.auth.Login(env.ctx, &models.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, _, err = env.auth.Login(env.ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestRegisterGeneratesUniqueUsernames(t *testing.T) {
	env := newTestEnv(t)

	first, _, err := env.auth.Register(env.ctx, registerReq("a@example.com", ""))
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", first.Username)

	second, _, err := env.auth.Register(env.ctx, registerReq("b@example.com", ""))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(second.Username, "jane_doe_"), second.Username)
	assert.NotEqual(t, first.Username, second.Username)
}

func TestRefreshRotatesAndLogoutRevokes(t *testing.T) {
	env := newTestEnv(t)
	_, pair, err := env.auth.Register(env.ctx, registerReq("jane@example.com", "jane"))
	require.NoError(t, err)

	_, rotated, err := env.auth.Refresh(env.ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, _, err = env.auth.Refresh(env.ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized, "superseded refresh token must be rejected")

	_, _, err = env.auth.Refresh(env.ctx, rotated.AccessToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized, "access token is not a refresh token")

	user, err := env.users.GetUserByEmail(env.ctx, "jane@example.com")
	require.NoError(t, err)
	require.NoError(t, env.auth.Logout(env.ctx, user.ID))
	_, _, err = env.auth.Refresh(env.ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestFirebaseLogin(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.auth.FirebaseLogin(env.ctx, "anything")
	assert.ErrorIs(t, err, models.ErrUnavailable)

	identity := &fakeIdentity{tokens: map[string]*firebase.IdentityToken{
		"new":    {UID: "uid-new", Email: "new@example.com", Name: "New Person"},
		"linked": {UID: "uid-linked", Email: "jane@example.com", Name: "Jane Doe"},
	}}
	env.auth = NewAuthService(env.users, env.tokens, identity)

	_, _, err = env.auth.FirebaseLogin(env.ctx, "forged")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	created, _, err := env.auth.FirebaseLogin(env.ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "new_person", created.Username)
	assert.Equal(t, "New", created.FirstName)
	assert.Equal(t, "Person", created.LastName)

	again, _, err := env.auth.FirebaseLogin(env.ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	jane, _, err := env.auth.Register(env.ctx, registerReq("jane@example.com", "jane"))
	require.NoError(t, err)
	linked, _, err := env.auth.FirebaseLogin(env.ctx, "linked")
	require.NoError(t, err)
	assert.Equal(t, jane.ID, linked.ID)
	require.NotNil(t, linked.FirebaseUID)
	assert.Equal(t, "uid-linked", *linked.FirebaseUID)
}
