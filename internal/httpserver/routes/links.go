package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
	"github.com/Samyk00/LinkVault/internal/httpserver/handlers"
)

func init() { Register(registerLinks) }

func registerLinks(r chi.Router, d deps.Deps) {
	g := guarded(r, d)
	g.Get("/api/state", handlers.State(d))
	g.Get("/api/links", handlers.ListLinks(d))
	g.Post("/api/links", handlers.CreateLink(d))
	g.Get("/api/links/{id}", handlers.GetLink(d))
	g.Patch("/api/links/{id}", handlers.UpdateLink(d))
	g.Delete("/api/links/{id}", handlers.DeleteLink(d))
	g.Post("/api/links/{id}/restore", handlers.RestoreLink(d))
	g.Post("/api/links/{id}/favorite", handlers.ToggleFavorite(d))
	g.Delete("/api/trash", handlers.EmptyTrash(d))
	g.Post("/api/metadata", handlers.FetchMetadata(d))
}
