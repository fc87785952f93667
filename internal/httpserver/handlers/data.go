package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
	"github.com/Samyk00/LinkVault/internal/logger"
	"github.com/Samyk00/LinkVault/internal/persistence"
)

// importSlack is allowed on top of the quota for snapshot whitespace and the envelope.
const importSlack = 1 << 20

type importResponse struct {
	Links   int `json:"links"`
	Folders int `json:"folders"`
}

type sizeResponse struct {
	Bytes   int64   `json:"bytes"`
	Quota   int64   `json:"quota"`
	Human   string  `json:"human"`
	Percent float64 `json:"percent"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

// Export streams the dataset as a downloadable snapshot. ?label= is folded
// into the suggested file name.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := d.Store.ExportData(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		name := persistence.BackupFilename(r.URL.Query().Get("label"), d.Now())
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// Import replaces the whole dataset with the snapshot in the request body.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, d.Store.Quota()+importSlack)
		data, err := io.ReadAll(body)
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeError(w, r, d, badRequest{msg: "snapshot larger than " + humanize.IBytes(uint64(tooBig.Limit))})
				return
			}
			writeError(w, r, d, badRequest{msg: "read body: " + err.Error()})
			return
		}

		snap, err := d.Store.ImportData(r.Context(), data)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Info("snapshot imported",
			logger.Int("links", len(snap.Links)),
			logger.Int("folders", len(snap.Folders)))
		writeJSON(w, http.StatusOK, importResponse{Links: len(snap.Links), Folders: len(snap.Folders)})
	}
}

// StorageSize reports the durable footprint against the quota.
func StorageSize(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		size, err := d.Store.StorageSize(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		quota := d.Store.Quota()
		resp := sizeResponse{Bytes: size, Quota: quota, Human: humanize.IBytes(uint64(size))}
		if quota > 0 {
			resp.Percent = float64(size) * 100 / float64(quota)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// Reset wipes every record. The body must carry confirm=true.
func Reset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		if !req.Confirm {
			writeError(w, r, d, badRequest{msg: "reset requires confirm=true"})
			return
		}
		if err := d.Store.Reset(r.Context()); err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Warn("dataset reset", logger.String("remote_ip", r.RemoteAddr))
		w.WriteHeader(http.StatusNoContent)
	}
}
