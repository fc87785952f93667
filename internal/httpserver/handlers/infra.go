package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Kind       string `json:"kind,omitempty"`
	Namespace  string `json:"namespace,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Usage      string `json:"usage,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	ViewID     string                     `json:"view_id"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the backend and store state.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		backend := checkBackend(ctx, d)
		st := componentStatus{OK: d.Store.Hydrated(), LastReload: "never"}
		if last := d.Store.LastLoad(); !last.IsZero() {
			st.LastReload = humanize.Time(last)
		}
		if size, err := d.Store.StorageSize(ctx); err == nil {
			st.Usage = humanize.IBytes(uint64(size)) + " of " + humanize.IBytes(uint64(d.Store.Quota()))
		}

		components := map[string]componentStatus{
			"backend": backend,
			"store":   st,
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			ViewID:     d.Store.ViewID(),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if st := components["store"]; !st.OK {
		return "starting"
	}
	if b := components["backend"]; !b.OK {
		// Reads are served from memory, writes will fail.
		return "read-only"
	}
	return "ok"
}

func checkBackend(ctx context.Context, d deps.Deps) componentStatus {
	if d.Backend == nil {
		return componentStatus{OK: false, Error: "backend not initialized"}
	}

	status := componentStatus{Kind: d.Backend.Name(), Namespace: d.Backend.Namespace()}
	if err := d.Backend.Ping(ctx); err != nil {
		status.Error = err.Error()
		return status
	}
	status.OK = true
	return status
}
