package handlers

import (
	"errors"
	"net/http"
	"time"

	"saas-platform/backend/internal/firebase"
	"saas-platform/backend/internal/httpjson"
)

type signedURLReq struct {
	ObjectPath     string `json:"objectPath"` // e.g. "users/{uid}/avatar.png"
	ContentType    string `json:"contentType,omitempty"`
	ExpiresSeconds int64  `json:"expiresSeconds,omitempty"` // default 900
}

type signedURLResp struct {
	URL       string `json:"url"`
	Method    string `json:"method"`
	ExpiresAt int64  `json:"expiresAt"`
}

func (h *Handlers) CreateSignedUploadURL(w http.ResponseWriter, r *http.Request) {
	var req signedURLReq
	if err := httpjson.Read(r, &req); err != nil || req.ObjectPath == "" {
		httpjson.Error(w, http.StatusBadRequest, "objectPath is required")
		return
	}
	url, exp, err := h.d.Uploads.SignedUploadURL(r.Context(), req.ObjectPath, req.ContentType, time.Duration(req.ExpiresSeconds)*time.Second)
	if errors.Is(err, firebase.ErrSigningUnavailable) {
		httpjson.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, signedURLResp{URL: url, Method: http.MethodPut, ExpiresAt: exp.Unix()})
}
