package handlers

import (
	"net/http"

	"github.com/Samyk00/LinkVault/internal/bulk"
	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
)

// bulkRequest carries the user's answer to the confirmation prompt up front.
// Without confirm=true a prompt is answered with no and returned as 409.
type bulkRequest struct {
	Confirm       bool              `json:"confirm"`
	FolderID      domain.OptionalID `json:"folderId"`
	TouchExisting bool              `json:"touchExisting"`
}

// BulkFavorite favorites or unfavorites the selection.
func BulkFavorite(d deps.Deps) http.HandlerFunc {
	return bulkAction(d, func(r *http.Request, c *bulk.Coordinator, _ bulkRequest) (bulk.Report, error) {
		return c.Favorite(r.Context())
	})
}

// BulkMove files the selection under folderId, or unfiles it when folderId is null.
func BulkMove(d deps.Deps) http.HandlerFunc {
	return bulkAction(d, func(r *http.Request, c *bulk.Coordinator, req bulkRequest) (bulk.Report, error) {
		if !req.FolderID.Set {
			return bulk.Report{}, badRequest{msg: "folderId is required (null unfiles)"}
		}
		return c.Move(r.Context(), req.FolderID.ID, bulk.MoveOptions{TouchExisting: req.TouchExisting})
	})
}

// BulkDelete moves the selection to the trash.
func BulkDelete(d deps.Deps) http.HandlerFunc {
	return bulkAction(d, func(r *http.Request, c *bulk.Coordinator, _ bulkRequest) (bulk.Report, error) {
		return c.Delete(r.Context())
	})
}

func bulkAction(d deps.Deps, run func(*http.Request, *bulk.Coordinator, bulkRequest) (bulk.Report, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}

		report, err := run(r, d.Bulk.WithConfirmer(bulk.Always(req.Confirm)), req)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
