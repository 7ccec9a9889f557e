package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"saas-platform/backend/internal/config"
	"saas-platform/backend/internal/connectivity"
	"saas-platform/backend/internal/firebase"
	"saas-platform/backend/internal/handlers"
	"saas-platform/backend/internal/hostenv"
	apihttp "saas-platform/backend/internal/http"
	"saas-platform/backend/internal/logger"
	"saas-platform/backend/internal/middleware"
	"saas-platform/backend/internal/profile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("api", "info").Fatal().Err(err).Msg("config load failed")
	}
	log := logger.New("api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	win := hostenv.FromHostname(cfg.Hostname)

	clients, err := firebase.NewClients(ctx, cfg, win, log)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase init failed")
	}
	defer func() {
		if err := clients.Close(); err != nil {
			log.Warn().Err(err).Msg("closing firebase clients")
		}
	}()

	var target connectivity.EventTarget
	if win != nil {
		target = win
		go hostenv.NewProber(win, cfg.ProbeURL, cfg.ProbeInterval, log).Run(ctx)
	} else {
		log.Info().Msg("APP_HOSTNAME not set, connectivity monitoring disabled")
	}
	conn := connectivity.NewService(clients.Database, target, log)
	if conn.CanMonitor() {
		stopMonitor := conn.MonitorConnection(func(online bool) {
			log.Info().Bool("online", online).Msg("connectivity state")
		})
		defer stopMonitor()
	}

	go func() {
		if err := clients.RemoteConfig.Fetch(ctx); err != nil {
			log.Warn().Err(err).Msg("remote config fetch failed, serving defaults")
		}
	}()

	deps := handlers.Deps{
		FirebaseConfig: clients.Config,
		Emulators:      clients.Emulators,
		Connectivity:   conn,
		Network:        clients.Database,
		Profiles:       profile.NewRepo(clients.Database),
		Uploads:        clients.Storage,
		Functions:      clients.Functions,
		RemoteConfig:   clients.RemoteConfig,
		Log:            log,
	}
	if clients.Analytics != nil {
		deps.Analytics = clients.Analytics
		log.Info().Str("measurement_id", clients.Analytics.MeasurementID()).Msg("analytics enabled")
	}
	var verifier middleware.TokenVerifier = middleware.UnavailableVerifier(clients.AuthErr)
	if clients.Auth != nil {
		verifier = clients.Auth
	}
	var trace func(http.Handler) http.Handler
	if clients.Performance != nil {
		trace = clients.Performance.Middleware
	}

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:      cfg,
		Log:      log,
		Verifier: verifier,
		Handlers: handlers.New(deps),
		Trace:    trace,
	})

	// No WriteTimeout: /v1/connectivity/stream is long-lived and ends with ctx.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("project", cfg.Firebase.ProjectID).
			Bool("emulators", clients.Emulators.Connected()).
			Bool("functions_emulated", clients.Functions.Emulated()).
			Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("listen failed")
			stop()
		}
	}()

	<-ctx.Done()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("shutting down...")
	_ = srv.Shutdown(ctxShutdown)
}
