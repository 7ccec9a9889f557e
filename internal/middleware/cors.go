package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"saas-platform/backend/internal/logger"
)

func CORS(allowedOrigins []string, log *logger.Logger) func(http.Handler) http.Handler {
	// Empty means allow everything (local development).
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	log.Info().Strs("origins", allowedOrigins).Msg("cors configured")

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
