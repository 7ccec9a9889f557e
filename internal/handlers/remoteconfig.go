package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"saas-platform/backend/internal/httpjson"
)

func (h *Handlers) RemoteConfigValue(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	v := h.d.RemoteConfig.GetValue(key)
	resp := map[string]any{
		"key":     key,
		"value":   v.String(),
		"source":  v.Source(),
		"bool":    v.Bool(),
		"number":  v.Number(),
		"version": h.d.RemoteConfig.Version(),
	}
	if at := h.d.RemoteConfig.FetchedAt(); !at.IsZero() {
		resp["fetchedAt"] = at.UTC().Format(time.RFC3339)
	}
	httpjson.Write(w, http.StatusOK, resp)
}
