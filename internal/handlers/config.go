package handlers

import (
	"net/http"

	"saas-platform/backend/internal/httpjson"
)

// FirebaseConfig serves the public client configuration record.
func (h *Handlers) FirebaseConfig(w http.ResponseWriter, _ *http.Request) {
	httpjson.Write(w, http.StatusOK, h.d.FirebaseConfig)
}
