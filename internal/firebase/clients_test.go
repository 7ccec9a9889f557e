package firebase

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-platform/backend/internal/config"
	"saas-platform/backend/internal/hostenv"
	"saas-platform/backend/internal/logger"
)

// clearEmulatorEnv empties the emulator variables for the test; t.Setenv
// restores them afterwards, including values ConnectEmulators writes.
func clearEmulatorEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{AuthEmulatorEnv, FirestoreEmulatorEnv, StorageEmulatorEnv, FunctionsEmulatorEnv} {
		t.Setenv(k, "")
	}
}

func TestNewClients_DevelopmentOnLocalhostUsesEmulators(t *testing.T) {
	clearEmulatorEnv(t)
	ctx := context.Background()

	cfg := config.Config{
		Env:             "development",
		FunctionsRegion: "us-central1",
		Firebase:        config.FirebaseConfig{ProjectID: "demo-x", AppID: "1:1:web:1"},
	}
	c, err := NewClients(ctx, cfg, hostenv.NewWindow("localhost"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.True(t, c.Emulators.Attempted)
	assert.True(t, c.Emulators.Connected())
	assert.Equal(t, AuthEmulatorHost, os.Getenv(AuthEmulatorEnv))
	assert.Equal(t, FirestoreEmulatorHost, os.Getenv(FirestoreEmulatorEnv))
	assert.Equal(t, StorageEmulatorHost, os.Getenv(StorageEmulatorEnv))
	assert.Equal(t, FunctionsEmulatorHost, os.Getenv(FunctionsEmulatorEnv))

	// Functions is built after redirection, so it already targets the emulator.
	assert.True(t, c.Functions.Emulated())
	assert.Equal(t, "http://localhost:5001/demo-x/us-central1/f", c.Functions.URL("f"))

	assert.NotNil(t, c.App)
	assert.NotNil(t, c.Auth)
	require.NotNil(t, c.Database)
	assert.True(t, c.Database.NetworkEnabled())
	assert.Equal(t, "demo-x.appspot.com", c.Storage.Bucket)
	assert.NotNil(t, c.RemoteConfig)
	assert.NotNil(t, c.Analytics)
	assert.NotNil(t, c.Performance)
	assert.Equal(t, cfg.Firebase, c.Config)
}

func TestNewClients_NoWindow(t *testing.T) {
	clearEmulatorEnv(t)

	cfg := config.Config{
		Env:             "development",
		FunctionsRegion: "us-central1",
		Firebase:        config.FirebaseConfig{ProjectID: "demo-x"},
	}
	c, err := NewClients(context.Background(), cfg, nil, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.False(t, c.Emulators.Attempted)
	assert.Empty(t, os.Getenv(FirestoreEmulatorEnv), "no redirection without a host window")
	assert.False(t, c.Functions.Emulated())
	assert.Nil(t, c.Analytics)
	assert.Nil(t, c.Performance)
}

func TestNewClients_EmptyConfigDoesNotFail(t *testing.T) {
	clearEmulatorEnv(t)

	c, err := NewClients(context.Background(), config.Config{}, nil, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NotNil(t, c.Database)
	require.NotNil(t, c.Storage)
	require.NotNil(t, c.RemoteConfig)
	assert.Equal(t, c.Auth == nil, c.AuthErr != nil)
	if c.AuthErr != nil {
		assert.ErrorIs(t, c.AuthErr, ErrUnavailable)
	}
}

func TestUnavailableDatabase(t *testing.T) {
	db := UnavailableDatabase(assert.AnError, logger.Nop())
	ctx := context.Background()

	_, err := db.Get(ctx, "users/u1")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, assert.AnError)

	_, err = db.Set(ctx, "users/u1", map[string]any{"a": 1})
	assert.ErrorIs(t, err, ErrUnavailable)

	require.NoError(t, db.DisableNetwork(ctx))
	queued, err := db.Set(ctx, "users/u1", map[string]any{"a": 1})
	require.NoError(t, err)
	assert.True(t, queued)
	assert.ErrorIs(t, db.EnableNetwork(ctx), ErrUnavailable)
	assert.Equal(t, 1, db.PendingWrites())

	assert.NoError(t, db.Close())
}
