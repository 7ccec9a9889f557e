package firebase

import (
	"fmt"
	"os"

	"saas-platform/backend/internal/hostenv"
	"saas-platform/backend/internal/logger"
)

// Emulator addresses used in local development.
const (
	AuthEmulatorHost      = "localhost:9099"
	FirestoreEmulatorHost = "localhost:8080"
	StorageEmulatorHost   = "localhost:9199"
	FunctionsEmulatorHost = "localhost:5001"
)

// Environment variables the SDK clients consult when they are constructed.
const (
	AuthEmulatorEnv      = "FIREBASE_AUTH_EMULATOR_HOST"
	FirestoreEmulatorEnv = "FIRESTORE_EMULATOR_HOST"
	StorageEmulatorEnv   = "STORAGE_EMULATOR_HOST"
	FunctionsEmulatorEnv = "FUNCTIONS_EMULATOR_HOST"
)

// Environ is the process environment as seen by ConnectEmulators.
type Environ interface {
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
}

type osEnviron struct{}

func (osEnviron) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (osEnviron) Setenv(key, value string) error      { return os.Setenv(key, value) }

// OSEnviron is the real process environment.
var OSEnviron Environ = osEnviron{}

type EmulatorTarget struct {
	Service string `json:"service"`
	EnvVar  string `json:"envVar"`
	Address string `json:"address"`
	Err     error  `json:"-"`
	// Error is Err's message, empty when the target was redirected.
	Error string `json:"error,omitempty"`
}

type EmulatorReport struct {
	Attempted bool             `json:"attempted"`
	Targets   []EmulatorTarget `json:"targets,omitempty"`
}

// Connected reports whether every target was redirected.
func (r EmulatorReport) Connected() bool {
	if !r.Attempted {
		return false
	}
	for _, t := range r.Targets {
		if t.Err != nil {
			return false
		}
	}
	return true
}

func (r EmulatorReport) Errors() []error {
	var errs []error
	for _, t := range r.Targets {
		if t.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Service, t.Err))
		}
	}
	return errs
}

// ShouldUseEmulators is true only in development, with a host window served
// from localhost or 127.0.0.1.
func ShouldUseEmulators(development bool, win *hostenv.Window) bool {
	return development && win != nil && win.IsLoopback()
}

func emulatorTargets() []EmulatorTarget {
	return []EmulatorTarget{
		{Service: "auth", EnvVar: AuthEmulatorEnv, Address: AuthEmulatorHost},
		{Service: "firestore", EnvVar: FirestoreEmulatorEnv, Address: FirestoreEmulatorHost},
		{Service: "storage", EnvVar: StorageEmulatorEnv, Address: StorageEmulatorHost},
		{Service: "functions", EnvVar: FunctionsEmulatorEnv, Address: FunctionsEmulatorHost},
	}
}

// ConnectEmulators points auth, firestore, storage and functions at the local
// emulators when ShouldUseEmulators allows it. It must run before the
// service clients are built. A target that already points somewhere else is
// left alone and reported with ErrEmulatorAlreadyConnected. Failures are
// logged and reported, never fatal.
func ConnectEmulators(development bool, win *hostenv.Window, env Environ, log *logger.Logger) EmulatorReport {
	if !ShouldUseEmulators(development, win) {
		return EmulatorReport{}
	}
	log = log.Component("emulators")

	report := EmulatorReport{Attempted: true}
	for _, t := range emulatorTargets() {
		if cur, ok := env.LookupEnv(t.EnvVar); ok && cur != "" && cur != t.Address {
			t.Err = fmt.Errorf("%w at %s", ErrEmulatorAlreadyConnected, cur)
		} else if err := env.Setenv(t.EnvVar, t.Address); err != nil {
			t.Err = err
		}
		if t.Err != nil {
			t.Error = t.Err.Error()
		}
		report.Targets = append(report.Targets, t)
	}

	if report.Connected() {
		log.Info().Msg("firebase emulators connected")
	} else {
		for _, err := range report.Errors() {
			log.Warn().Err(err).Msg("emulator already connected or not available")
		}
	}
	return report
}
