package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/store"
	"github.com/shrimpsizemoose/semla/internal/store/sqlite"
)

func setupTestService(t *testing.T) (*Service, func()) {
	s, err := sqlite.NewSQLiteStore(":memory:")
	require.NoError(t, err, "Failed to create store")

	err = s.ApplyMigrations("../../migrations")
	require.NoError(t, err, "Failed to apply migrations")

	cfg := &Config{}
	cfg.Server.Port = ":0"
	cfg.Sessions.Secret = "test-secret"
	cfg.Sessions.CookieName = "semla_session"
	cfg.Sessions.TTLMinutes = 5
	cfg.Auth.OnUnauthorized = PolicyRedirect

	service := &Service{
		Config: cfg,
		Store:  s,
	}

	return service, func() {
		require.NoError(t, s.Close())
	}
}

func TestRegister(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	t.Run("register new user", func(t *testing.T) {
		id, err := service.Register("teacher", "hunter2")
		require.NoError(t, err)
		assert.NotZero(t, id)
	})

	t.Run("stored password is not plaintext", func(t *testing.T) {
		user, err := service.Store.GetUserByUsername("teacher")
		require.NoError(t, err)
		assert.NotEqual(t, "hunter2", user.Password)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := service.Register("teacher", "otherpass")
		assert.ErrorIs(t, err, store.ErrUsernameTaken)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := service.Register("", "pass")
		assert.ErrorIs(t, err, ErrEmptyCredentials)

		_, err = service.Register("someone", "")
		assert.ErrorIs(t, err, ErrEmptyCredentials)
	})
}

func TestAuthenticate(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("teacher", "hunter2")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		user, err := service.Authenticate("teacher", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "teacher", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate("teacher", "not-hunter2")
		assert.ErrorIs(t, err, ErrBadPassword)
	})

	t.Run("unregistered password never works", func(t *testing.T) {
		_, err := service.Authenticate("teacher", "otherpass")
		assert.ErrorIs(t, err, ErrBadPassword)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := service.Authenticate("nobody", "hunter2")
		assert.ErrorIs(t, err, ErrUnknownUser)
	})
}
