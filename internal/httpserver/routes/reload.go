package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/vladlyt/mj/internal/httpserver/deps"
	"github.com/vladlyt/mj/internal/httpserver/handlers"
	"github.com/vladlyt/mj/internal/httpserver/mw"
)

func init() { Register(registerReload) }

func registerReload(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.Logger)).Post("/reload", handlers.Reload(d))
}
