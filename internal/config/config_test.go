package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FirebaseFieldsVerbatim(t *testing.T) {
	vars := map[string]string{
		"FIREBASE_API_KEY":             "  AIza-key ",
		"FIREBASE_AUTH_DOMAIN":         "demo.firebaseapp.com",
		"FIREBASE_PROJECT_ID":          "demo-project",
		"FIREBASE_STORAGE_BUCKET":      "",
		"FIREBASE_MESSAGING_SENDER_ID": "1234567890",
		"FIREBASE_APP_ID":              "1:1234567890:web:abc",
		"FIREBASE_MEASUREMENT_ID":      "not-a-measurement-id",
	}

	cfg, err := Parse(env.Options{Environment: vars})
	require.NoError(t, err)

	assert.Equal(t, FirebaseConfig{
		APIKey:            "  AIza-key ",
		AuthDomain:        "demo.firebaseapp.com",
		ProjectID:         "demo-project",
		StorageBucket:     "",
		MessagingSenderID: "1234567890",
		AppID:             "1:1234567890:web:abc",
		MeasurementID:     "not-a-measurement-id",
	}, cfg.Firebase)
}

func TestParse_MissingFirebaseVarsPassThroughEmpty(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, FirebaseConfig{}, cfg.Firebase)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "us-central1", cfg.FunctionsRegion)
	assert.Equal(t, 10*time.Second, cfg.ProbeInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Hostname)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{
		"APP_ENV":                     "Development",
		"APP_HOSTNAME":                "localhost",
		"ALLOWED_ORIGINS":             "http://a.test, ,http://b.test",
		"CONNECTIVITY_PROBE_INTERVAL": "250ms",
		"REMOTE_CONFIG_DEFAULTS":      "welcome=hi,beta=false",
	}})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"welcome": "hi", "beta": "false"}, cfg.RemoteConfigDefaults)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "localhost", cfg.Hostname)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.ProbeInterval)
}

func TestParse_BadDuration(t *testing.T) {
	_, err := Parse(env.Options{Environment: map[string]string{
		"CONNECTIVITY_PROBE_INTERVAL": "soon",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config from env")
}
