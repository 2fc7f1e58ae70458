package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoshop/internal/store"
)

func TestAuth_RegisterAndAuthenticate(t *testing.T) {
	st := store.New()
	svc := NewAuthService(st)
	ctx := context.Background()

	user, err := svc.Register(ctx, "gaia", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Zero(t, user.EcoPoints)
	assert.Equal(t, store.DefaultAvatar(), user.Avatar)
	assert.NotEqual(t, []byte("s3cret"), user.PasswordHash)

	got, err := svc.Authenticate(ctx, "gaia", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "gaia", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_RegisterValidation(t *testing.T) {
	svc := NewAuthService(store.New())
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Register(ctx, "gaia", "pw")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "gaia", "other")
	assert.ErrorIs(t, err, ErrLoginTaken)
}

func TestAuth_SeededUsersUseDemoPassword(t *testing.T) {
	st := store.New()
	hash, err := HashPassword("demo")
	require.NoError(t, err)
	require.NoError(t, store.Seed(st, hash))

	user, err := NewAuthService(st).Authenticate(context.Background(), "Beatrice Eco", "demo")
	require.NoError(t, err)
	assert.Equal(t, 2100, user.EcoPoints)
}
