package handlers

import (
	"errors"
	"net/http"

	"saas-platform/backend/internal/authctx"
	"saas-platform/backend/internal/firebase"
	"saas-platform/backend/internal/httpjson"
)

type logEventsReq struct {
	ClientID string                    `json:"clientId"`
	Events   []firebase.AnalyticsEvent `json:"events"`
}

func (h *Handlers) LogEvents(w http.ResponseWriter, r *http.Request) {
	if h.d.Analytics == nil {
		httpjson.Error(w, http.StatusServiceUnavailable, "analytics is not available")
		return
	}
	var req logEventsReq
	if err := httpjson.Read(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid body")
		return
	}
	uid, _ := authctx.UID(r.Context())

	err := h.d.Analytics.LogEvents(r.Context(), req.ClientID, uid, req.Events...)
	if errors.Is(err, firebase.ErrInvalidEvent) {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.d.Log.Warn().Err(err).Msg("analytics send failed")
		httpjson.Error(w, http.StatusBadGateway, "analytics send failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
