package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/battleship-backend/internal/hub"
	"github.com/DoyleJ11/battleship-backend/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRoutes builds the router. history may be nil, in which case /matches is not served.
func SetupRoutes(h *hub.Hub, history History, wsOpts ws.Options, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)
	r.Get("/stats", Stats(h, log))
	if history != nil {
		r.Get("/matches", Matches(history, log))
	}
	r.Get("/ws", ws.Handler(h, wsOpts))
	return r
}
