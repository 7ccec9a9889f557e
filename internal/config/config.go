package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// FirebaseConfig is the client configuration record. Values are taken from
// the environment as-is.
type FirebaseConfig struct {
	APIKey            string `env:"API_KEY" json:"apiKey"`
	AuthDomain        string `env:"AUTH_DOMAIN" json:"authDomain"`
	ProjectID         string `env:"PROJECT_ID" json:"projectId"`
	StorageBucket     string `env:"STORAGE_BUCKET" json:"storageBucket"`
	MessagingSenderID string `env:"MESSAGING_SENDER_ID" json:"messagingSenderId"`
	AppID             string `env:"APP_ID" json:"appId"`
	MeasurementID     string `env:"MEASUREMENT_ID" json:"measurementId"`
}

type Config struct {
	Firebase FirebaseConfig `envPrefix:"FIREBASE_"`

	// Env is "development" for local work; anything else is treated as production.
	Env      string `env:"APP_ENV" envDefault:"production"`
	Hostname string `env:"APP_HOSTNAME"`
	Port     string `env:"PORT" envDefault:"8080"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	CredentialsFile              string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	ServiceAccountJSON           string `env:"FIREBASE_SERVICE_ACCOUNT_JSON"`
	SignedURLServiceAccountEmail string `env:"SIGNED_URL_SERVICE_ACCOUNT_EMAIL"`

	FunctionsRegion    string `env:"FUNCTIONS_REGION" envDefault:"us-central1"`
	AnalyticsAPISecret string `env:"ANALYTICS_API_SECRET"`

	// RemoteConfigDefaults are in-app defaults, e.g. "welcome=hi,beta=false".
	RemoteConfigDefaults map[string]string `env:"REMOTE_CONFIG_DEFAULTS" envKeyValSeparator:"="`

	ProbeURL      string        `env:"CONNECTIVITY_PROBE_URL" envDefault:"https://firestore.googleapis.com/"`
	ProbeInterval time.Duration `env:"CONNECTIVITY_PROBE_INTERVAL" envDefault:"10s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads .env files (if present) into the process environment and then
// parses it.
func Load(files ...string) (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(files...)
	return Parse(env.Options{})
}

// Parse parses the configuration using opts. Tests pass opts.Environment to
// avoid touching the process environment.
func Parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config from env: %w", err)
	}
	allowed := make([]string, 0, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		o = strings.TrimSpace(o)
		if o != "" {
			allowed = append(allowed, o)
		}
	}
	cfg.AllowedOrigins = allowed
	return cfg, nil
}
