package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Samyk00/LinkVault/internal/httpserver/deps"
	"github.com/Samyk00/LinkVault/internal/httpserver/handlers"
)

func init() { Register(registerSelection) }

func registerSelection(r chi.Router, d deps.Deps) {
	g := guarded(r, d)
	g.Get("/api/selection", handlers.GetSelection(d))
	g.Put("/api/selection", handlers.ReplaceSelection(d))
	g.Post("/api/selection/select", handlers.AddToSelection(d))
	g.Post("/api/selection/deselect", handlers.RemoveFromSelection(d))
	g.Post("/api/selection/{id}/toggle", handlers.ToggleSelected(d))
	g.Delete("/api/selection", handlers.ClearSelection(d))

	g.Post("/api/bulk/favorite", handlers.BulkFavorite(d))
	g.Post("/api/bulk/move", handlers.BulkMove(d))
	g.Post("/api/bulk/delete", handlers.BulkDelete(d))
}
