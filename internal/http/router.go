package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"saas-platform/backend/internal/config"
	"saas-platform/backend/internal/handlers"
	"saas-platform/backend/internal/httpjson"
	"saas-platform/backend/internal/logger"
	"saas-platform/backend/internal/middleware"
)

type RouterDeps struct {
	Cfg      config.Config
	Log      *logger.Logger
	Verifier middleware.TokenVerifier
	Handlers *handlers.Handlers
	// Trace wraps every request when set.
	Trace func(http.Handler) http.Handler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	if d.Trace != nil {
		r.Use(d.Trace)
	}
	r.Use(middleware.CORS(d.Cfg.AllowedOrigins, d.Log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpjson.Write(w, http.StatusOK, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	h := d.Handlers
	r.Get("/v1/firebase-config", h.FirebaseConfig)
	r.Get("/v1/connectivity", h.Status)
	r.Get("/v1/connectivity/stream", h.Stream)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.Verifier))

		pr.Get("/v1/me", h.Me)
		pr.Put("/v1/me", h.UpdateMe)

		pr.Post("/v1/uploads/signed-url", h.CreateSignedUploadURL)
		pr.Post("/v1/functions/{name}", h.CallFunction)
		pr.Get("/v1/remote-config/{key}", h.RemoteConfigValue)
		pr.Post("/v1/analytics/events", h.LogEvents)

		pr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAdmin)
			ar.Post("/v1/connectivity/offline", h.Offline)
			ar.Post("/v1/connectivity/online", h.Online)
		})
	})

	return r
}
