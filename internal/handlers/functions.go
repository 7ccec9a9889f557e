package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"saas-platform/backend/internal/authctx"
	"saas-platform/backend/internal/firebase"
	"saas-platform/backend/internal/httpjson"
)

// CallFunction forwards {"data": ...} to the named callable function with the
// caller's ID token.
func (h *Handlers) CallFunction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req struct {
		Data json.RawMessage `json:"data"`
	}
	if err := httpjson.Read(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	res, err := h.d.Functions.Call(r.Context(), name, req.Data, authctx.IDToken(r.Context()))
	var fe *firebase.FunctionError
	if errors.As(err, &fe) {
		status := fe.HTTPStatus
		if status < 400 {
			status = http.StatusBadGateway
		}
		httpjson.Write(w, status, map[string]any{"error": fe})
		return
	}
	if err != nil {
		h.d.Log.Error().Err(err).Str("function", name).Msg("callable function failed")
		httpjson.Error(w, http.StatusBadGateway, "function call failed")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"result": res})
}
