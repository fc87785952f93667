package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
	"github.com/Samyk00/LinkVault/internal/logger"
	"github.com/Samyk00/LinkVault/internal/store"
)

// fetchBudget bounds the metadata lookup done while creating a link.
const fetchBudget = 8 * time.Second

// ListLinks filters links with ?view=active|trash|favorites|unfiled,
// ?folder=<id>, ?platform=<p> and ?q=<text>.
func ListLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := store.LinkFilter{
			FolderID: q.Get("folder"),
			Platform: domain.Platform(q.Get("platform")),
			Query:    q.Get("q"),
		}
		switch q.Get("view") {
		case "", "active":
		case "trash":
			f.Trash = true
		case "favorites":
			f.FavoritesOnly = true
		case "unfiled":
			f.Unfiled = true
		default:
			writeError(w, r, d, badRequest{msg: "unknown view " + strconv.Quote(q.Get("view"))})
			return
		}
		if f.Platform != "" && !f.Platform.Valid() {
			writeError(w, r, d, domain.ErrInvalidPlatform)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.Links(f))
	}
}

// GetLink returns one link, trashed or not.
func GetLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, ok := d.Store.Link(chi.URLParam(r, "id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "link not found", Code: "not_found"})
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

type createLinkRequest struct {
	domain.LinkInput
	// Fetch fills empty title, description and thumbnail from the page.
	Fetch bool `json:"fetch"`
}

// CreateLink adds a link. With fetch=true the page metadata is looked up
// first; a failed lookup is logged and the link is saved as given.
func CreateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLinkRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		req.URL = strings.TrimSpace(req.URL)
		if req.URL == "" {
			writeError(w, r, d, badRequest{msg: "url is required"})
			return
		}

		in := req.LinkInput
		if req.Fetch && d.Fetcher != nil {
			ctx, cancel := context.WithTimeout(r.Context(), fetchBudget)
			meta, err := d.Fetcher.Fetch(ctx, in.URL)
			cancel()
			if err != nil {
				d.Logger.Warn("metadata fetch failed", logger.String("url", in.URL), logger.Error(err))
			}
			meta.Fill(&in)
		}

		l, err := d.Store.AddLink(r.Context(), in)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, l)
	}
}

// UpdateLink applies a partial update. Unknown ids are accepted as no-ops.
func UpdateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.LinkPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, d, err)
			return
		}
		id := chi.URLParam(r, "id")
		if err := d.Store.UpdateLink(r.Context(), id, patch); err != nil {
			writeError(w, r, d, err)
			return
		}
		respondLink(w, d, id)
	}
}

// DeleteLink moves a link to the trash, or removes it for good with ?permanent=true.
func DeleteLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		permanent, _ := strconv.ParseBool(r.URL.Query().Get("permanent"))

		var err error
		if permanent {
			err = d.Store.PermanentlyDeleteLink(r.Context(), id)
		} else {
			err = d.Store.DeleteLink(r.Context(), id)
		}
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RestoreLink takes a link out of the trash.
func RestoreLink(d deps.Deps) http.HandlerFunc {
	return linkAction(d, d.Store.RestoreLink)
}

// ToggleFavorite flips a link's favorite flag.
func ToggleFavorite(d deps.Deps) http.HandlerFunc {
	return linkAction(d, d.Store.ToggleFavorite)
}

func linkAction(d deps.Deps, action func(context.Context, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := action(r.Context(), id); err != nil {
			writeError(w, r, d, err)
			return
		}
		respondLink(w, d, id)
	}
}

// respondLink returns the link after a mutation, or 204 when the id was unknown.
func respondLink(w http.ResponseWriter, d deps.Deps, id string) {
	l, ok := d.Store.Link(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type emptyTrashResponse struct {
	Removed int `json:"removed"`
}

// EmptyTrash permanently deletes every trashed link.
func EmptyTrash(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := d.Store.EmptyTrash(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, emptyTrashResponse{Removed: n})
	}
}

type metadataRequest struct {
	URL string `json:"url"`
}

// FetchMetadata previews what CreateLink with fetch=true would fill in.
func FetchMetadata(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req metadataRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		if d.Fetcher == nil {
			writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "metadata lookups are disabled", Code: "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), fetchBudget)
		defer cancel()
		meta, err := d.Fetcher.Fetch(ctx, req.URL)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Code: "fetch_failed"})
			return
		}
		writeJSON(w, http.StatusOK, meta)
	}
}
