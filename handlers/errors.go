package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/bookbazaar/backend/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto status codes. Client errors carry
// the rule that was violated; server errors stay generic and get logged.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindInvalidInput:
		status = http.StatusBadRequest
	case apperr.KindValuation:
		status = http.StatusBadGateway
	}
	if status >= 500 {
		log.Println("request failed:", err)
	}
	writeJSON(w, status, map[string]string{"error": apperr.Message(err)})
}
