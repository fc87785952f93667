package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
	"github.com/Samyk00/LinkVault/internal/httpserver/handlers"
)

func init() { Register(registerFolders) }

func registerFolders(r chi.Router, d deps.Deps) {
	g := guarded(r, d)
	g.Get("/api/folders", handlers.ListFolders(d))
	g.Post("/api/folders", handlers.CreateFolder(d))
	g.Patch("/api/folders/{id}", handlers.UpdateFolder(d))
	g.Delete("/api/folders/{id}", handlers.DeleteFolder(d))

	g.Get("/api/settings", handlers.GetSettings(d))
	g.Patch("/api/settings", handlers.UpdateSettings(d))
}
