package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"coopnotes_server/apperrors"
)

// Store calls get a bounded deadline so a stalled backend surfaces as a
// typed timeout instead of hanging the request.
const storeTimeout = 15 * time.Second

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), storeTimeout)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps a typed error to its HTTP status and a JSON body
// carrying the code, so clients can react without parsing messages.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := apperrors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		log.Printf("Request failed: code=%s err=%v", code, err)
	}
	writeJSON(w, status, map[string]string{
		"code":  string(code),
		"error": err.Error(),
	})
}
