package handlers

import (
	"net/http"

	"saas-platform/backend/internal/firebase"
	"saas-platform/backend/internal/httpjson"
	"saas-platform/backend/internal/middleware"
	"saas-platform/backend/internal/profile"
)

// Me returns the caller's token identity plus the stored profile; profile is
// null when none exists yet.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	au, ok := middleware.GetAuthUser(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	p, err := h.d.Profiles.Get(r.Context(), au.UID)
	switch {
	case firebase.IsErrNotFound(err):
		p = nil
	case firebase.IsErrNetworkDisabled(err):
		httpjson.Error(w, http.StatusServiceUnavailable, "offline: profile unavailable")
		return
	case err != nil:
		h.d.Log.Error().Err(err).Str("uid", au.UID).Msg("profile read failed")
		httpjson.Error(w, http.StatusInternalServerError, "profile read failed")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"uid":     au.UID,
		"email":   au.Email,
		"claims":  au.Claims,
		"profile": p,
	})
}

// UpdateMe upserts the caller's profile. While the database network is
// disabled the write is queued and the response says so.
func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	au, ok := middleware.GetAuthUser(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	var in profile.Update
	if err := httpjson.Read(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	queued, err := h.d.Profiles.Upsert(r.Context(), au.UID, au.Email, in)
	if err != nil {
		h.d.Log.Error().Err(err).Str("uid", au.UID).Msg("profile write failed")
		httpjson.Error(w, http.StatusInternalServerError, "profile write failed")
		return
	}
	status := http.StatusOK
	if queued {
		status = http.StatusAccepted
	}
	httpjson.Write(w, status, map[string]any{"ok": true, "queued": queued})
}
