package handlers

import (
	"context"
	"encoding/json"
	"time"

	"saas-platform/backend/internal/config"
	"saas-platform/backend/internal/firebase"
	"saas-platform/backend/internal/logger"
	"saas-platform/backend/internal/profile"
)

type Connectivity interface {
	EnableOfflineMode(ctx context.Context) error
	EnableOnlineMode(ctx context.Context) error
	Online() bool
	Watch(cb func(online bool)) (stop func())
	CanMonitor() bool
}

// NetworkState is the database side of connectivity.
type NetworkState interface {
	NetworkEnabled() bool
	PendingWrites() int
}

type Profiles interface {
	Get(ctx context.Context, uid string) (*profile.Profile, error)
	Upsert(ctx context.Context, uid, email string, u profile.Update) (queued bool, err error)
}

type Uploader interface {
	SignedUploadURL(ctx context.Context, objectPath, contentType string, expires time.Duration) (string, time.Time, error)
}

type FunctionCaller interface {
	Call(ctx context.Context, name string, data any, idToken string) (json.RawMessage, error)
}

type RemoteValues interface {
	GetValue(key string) firebase.Value
	Version() string
	FetchedAt() time.Time
}

type EventLogger interface {
	LogEvents(ctx context.Context, clientID, userID string, events ...firebase.AnalyticsEvent) error
}

// Deps wires handlers to the service handles. Analytics may be nil.
type Deps struct {
	FirebaseConfig config.FirebaseConfig
	Emulators      firebase.EmulatorReport
	Connectivity   Connectivity
	Network        NetworkState
	Profiles       Profiles
	Uploads        Uploader
	Functions      FunctionCaller
	RemoteConfig   RemoteValues
	Analytics      EventLogger
	Log            *logger.Logger
}

type Handlers struct {
	d Deps
}

func New(d Deps) *Handlers {
	return &Handlers{d: d}
}
