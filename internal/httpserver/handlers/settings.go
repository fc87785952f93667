package handlers

import (
	"net/http"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
)

func GetSettings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.Settings())
	}
}

func UpdateSettings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.SettingsPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := d.Store.UpdateSettings(r.Context(), patch); err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.Settings())
	}
}
