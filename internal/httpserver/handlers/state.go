package handlers

import (
	"net/http"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
	"github.com/Samyk00/LinkVault/internal/store"
)

type stateResponse struct {
	Hydrated      bool            `json:"hydrated"`
	ViewID        string          `json:"viewId"`
	Links         []domain.Link   `json:"links"`
	Trash         []domain.Link   `json:"trash"`
	Folders       []domain.Folder `json:"folders"`
	Settings      domain.Settings `json:"settings"`
	Selection     []string        `json:"selection"`
	Counts        store.Counts    `json:"counts"`
	MaxSubFolders int             `json:"maxSubFolders"`
}

// State returns everything the UI renders in one document.
// Clients must not render content while hydrated is false.
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := d.Store
		writeJSON(w, http.StatusOK, stateResponse{
			Hydrated:      s.Hydrated(),
			ViewID:        s.ViewID(),
			Links:         s.Links(store.LinkFilter{}),
			Trash:         s.Links(store.LinkFilter{Trash: true}),
			Folders:       s.Folders(),
			Settings:      s.Settings(),
			Selection:     s.Selection(),
			Counts:        s.Counts(),
			MaxSubFolders: s.MaxSubFolders(),
		})
	}
}
