package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
	"github.com/Samyk00/LinkVault/internal/httpserver/handlers"
)

func init() { Register(registerData) }

func registerData(r chi.Router, d deps.Deps) {
	g := guarded(r, d)
	g.Get("/api/data/export", handlers.Export(d))
	g.Post("/api/data/import", handlers.Import(d))
	g.Get("/api/data/size", handlers.StorageSize(d))
	g.Post("/api/data/reset", handlers.Reset(d))
}
