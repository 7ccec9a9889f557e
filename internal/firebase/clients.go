package firebase

import (
	"context"
	"errors"
	"fmt"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"

	"saas-platform/backend/internal/config"
	"saas-platform/backend/internal/hostenv"
	"saas-platform/backend/internal/logger"
)

// Clients bundles every service handle. Analytics and Performance are nil
// when there is no host window. Auth and Messaging are nil when their
// clients cannot be built; Database then fails every operation with
// ErrUnavailable and Storage has no client.
type Clients struct {
	App          *firebase.App
	Auth         *auth.Client
	Database     *Database
	Storage      *Storage
	Functions    *Functions
	RemoteConfig *RemoteConfig
	Messaging    *messaging.Client
	Analytics    *Analytics
	Performance  *Performance

	// AuthErr is set when Auth could not be built; Auth is then nil.
	AuthErr error

	Config    config.FirebaseConfig
	Emulators EmulatorReport
}

// ClientOptions returns credential options. GOOGLE_APPLICATION_CREDENTIALS
// wins over FIREBASE_SERVICE_ACCOUNT_JSON; with neither, Application Default
// Credentials are used.
func ClientOptions(cfg config.Config) []option.ClientOption {
	switch {
	case cfg.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}
	case cfg.ServiceAccountJSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON))}
	}
	return nil
}

// NewClients redirects to the local emulators when allowed and then builds
// every handle from cfg.Firebase. Only an app that cannot be created at all
// is an error; other clients degrade as described on Clients.
func NewClients(ctx context.Context, cfg config.Config, win *hostenv.Window, log *logger.Logger) (*Clients, error) {
	return newClients(ctx, cfg, win, OSEnviron, log)
}

func newClients(ctx context.Context, cfg config.Config, win *hostenv.Window, env Environ, log *logger.Logger) (*Clients, error) {
	fb := cfg.Firebase
	c := &Clients{Config: fb}
	c.Emulators = ConnectEmulators(cfg.IsDevelopment(), win, env, log)

	opts := ClientOptions(cfg)

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     fb.ProjectID,
		StorageBucket: BucketName(fb.StorageBucket, fb.ProjectID),
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app init: %w", err)
	}
	c.App = app

	// Missing or bad configuration values are passed through to the SDKs;
	// a client that refuses them is logged and left degraded, never fatal.
	if c.Auth, err = app.Auth(ctx); err != nil {
		log.Error().Err(err).Msg("auth client unavailable, token verification disabled")
		c.AuthErr = fmt.Errorf("%w: %w", ErrUnavailable, err)
		c.Auth = nil
	}

	if fs, err := app.Firestore(ctx); err != nil {
		log.Error().Err(err).Msg("firestore unavailable, database operations will fail")
		c.Database = UnavailableDatabase(err, log)
	} else {
		c.Database = NewDatabase(fs, log)
	}

	bucket := BucketName(fb.StorageBucket, fb.ProjectID)
	st, err := storage.NewClient(ctx, opts...)
	if err != nil {
		log.Error().Err(err).Msg("storage client unavailable")
		st = nil
	}
	c.Storage = NewStorage(st, bucket, cfg.SignedURLServiceAccountEmail, nil)
	if cfg.SignedURLServiceAccountEmail != "" {
		// Only needed for signed URLs.
		if iamClient, err := credentials.NewIamCredentialsClient(ctx, opts...); err != nil {
			log.Warn().Err(err).Msg("iam credentials client unavailable, signed urls disabled")
		} else {
			c.Storage.iam = iamClient
			c.Storage.sign = IAMSigner(iamClient)
		}
	}

	c.Functions = NewFunctions(fb.ProjectID, cfg.FunctionsRegion, env)

	hc, _, err := htransport.NewClient(ctx, append(opts, option.WithScopes(remoteConfigScope))...)
	if err != nil {
		log.Warn().Err(err).Msg("remote config client has no credentials, serving defaults only")
		hc = nil
	}
	c.RemoteConfig = NewRemoteConfig(hc, RemoteConfigEndpoint(fb.ProjectID))
	c.RemoteConfig.SetDefaults(cfg.RemoteConfigDefaults)

	if c.Messaging, err = app.Messaging(ctx); err != nil {
		log.Warn().Err(err).Msg("messaging client unavailable")
	}

	if win != nil {
		c.Analytics = NewAnalytics(fb.MeasurementID, cfg.AnalyticsAPISecret)
		c.Performance = NewPerformance(fb.AppID, log)
	}

	return c, nil
}

func (c *Clients) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Database != nil {
		errs = append(errs, c.Database.Close())
	}
	if c.Storage != nil {
		errs = append(errs, c.Storage.Close())
	}
	if c.Performance != nil {
		errs = append(errs, c.Performance.Shutdown(context.Background()))
	}
	return errors.Join(errs...)
}
