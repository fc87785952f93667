package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
)

// ListFolders returns every folder, only roots with ?roots=true, or the
// children of one folder with ?parent=<id>.
func ListFolders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("parent") != "":
			writeJSON(w, http.StatusOK, d.Store.ChildFolders(q.Get("parent")))
		case q.Get("roots") == "true":
			writeJSON(w, http.StatusOK, d.Store.RootFolders())
		default:
			writeJSON(w, http.StatusOK, d.Store.Folders())
		}
	}
}

// CreateFolder adds a folder after checking nesting depth and fan-out.
func CreateFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.FolderInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, d, err)
			return
		}
		f, err := d.Store.AddFolder(r.Context(), in)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, f)
	}
}

// UpdateFolder applies a partial update. Unknown ids are accepted as no-ops.
func UpdateFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.FolderPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, d, err)
			return
		}
		id := chi.URLParam(r, "id")
		if err := d.Store.UpdateFolder(r.Context(), id, patch); err != nil {
			writeError(w, r, d, err)
			return
		}
		f, ok := d.Store.Folder(id)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

// DeleteFolder removes a folder without touching its links or sub-folders.
func DeleteFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.DeleteFolder(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
