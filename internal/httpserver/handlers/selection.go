package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
)

type selectionRequest struct {
	IDs []string `json:"ids"`
}

type selectionResponse struct {
	IDs []string `json:"ids"`
}

func GetSelection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, selectionResponse{IDs: d.Store.Selection()})
	}
}

// ReplaceSelection sets the selection to the given ids. Unknown ids are dropped.
func ReplaceSelection(d deps.Deps) http.HandlerFunc {
	return selectionChange(d, func(ids []string) { d.Store.SetSelection(ids) })
}

func AddToSelection(d deps.Deps) http.HandlerFunc {
	return selectionChange(d, func(ids []string) { d.Store.Select(ids...) })
}

func RemoveFromSelection(d deps.Deps) http.HandlerFunc {
	return selectionChange(d, func(ids []string) { d.Store.Deselect(ids...) })
}

func ToggleSelected(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Store.ToggleSelected(chi.URLParam(r, "id"))
		writeJSON(w, http.StatusOK, selectionResponse{IDs: d.Store.Selection()})
	}
}

func ClearSelection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Store.ClearSelection()
		writeJSON(w, http.StatusOK, selectionResponse{IDs: d.Store.Selection()})
	}
}

func selectionChange(d deps.Deps, apply func([]string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		apply(req.IDs)
		writeJSON(w, http.StatusOK, selectionResponse{IDs: d.Store.Selection()})
	}
}
