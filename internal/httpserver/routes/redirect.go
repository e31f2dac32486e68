package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/vladlyt/mj/internal/httpserver/deps"
	"github.com/vladlyt/mj/internal/httpserver/handlers"
)

func init() { Register(registerRedirect) }

func registerRedirect(r chi.Router, d deps.Deps) {
	r.Get("/r/{token}", handlers.Redirect(d))
	r.Get("/api/aliases", handlers.Aliases(d))
}
