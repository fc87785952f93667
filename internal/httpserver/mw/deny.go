package mw

import (
	"encoding/json"
	"net/http"
)

// deny answers with the same JSON error shape the handlers use.
func deny(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}
