package handlers

import (
	"fmt"
	"net/http"
	"time"

	"saas-platform/backend/internal/firebase"
	"saas-platform/backend/internal/httpjson"
)

const streamKeepAlive = 25 * time.Second

type connectivityResp struct {
	Online         bool                    `json:"online"`
	NetworkEnabled bool                    `json:"networkEnabled"`
	PendingWrites  int                     `json:"pendingWrites"`
	Emulators      firebase.EmulatorReport `json:"emulators"`
}

func (h *Handlers) Status(w http.ResponseWriter, _ *http.Request) {
	httpjson.Write(w, http.StatusOK, connectivityResp{
		Online:         h.d.Connectivity.Online(),
		NetworkEnabled: h.d.Network.NetworkEnabled(),
		PendingWrites:  h.d.Network.PendingWrites(),
		Emulators:      h.d.Emulators,
	})
}

func (h *Handlers) Offline(w http.ResponseWriter, r *http.Request) {
	if err := h.d.Connectivity.EnableOfflineMode(r.Context()); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"ok": true, "network": "disabled"})
}

func (h *Handlers) Online(w http.ResponseWriter, r *http.Request) {
	if err := h.d.Connectivity.EnableOnlineMode(r.Context()); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"ok": true, "network": "enabled"})
}

// Stream pushes connectivity changes as server-sent events until the client
// goes away.
func (h *Handlers) Stream(w http.ResponseWriter, r *http.Request) {
	if !h.d.Connectivity.CanMonitor() {
		httpjson.Error(w, http.StatusServiceUnavailable, "no host window to monitor")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpjson.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	states := make(chan bool, 8)
	stop := h.d.Connectivity.Watch(func(online bool) {
		select {
		case states <- online:
		default:
			h.d.Log.Warn().Msg("connectivity stream client is slow, dropping state")
		}
	})
	defer stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case online := <-states:
			fmt.Fprintf(w, "event: connectivity\ndata: {\"online\":%t}\n\n", online)
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}
