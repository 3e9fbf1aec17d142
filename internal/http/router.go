// Package httpapi assembles the agent's router. Handlers live with their
// modules; this package only mounts them and the shared middleware chain.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"totem/internal/platform/middleware"
	promoterhandler "totem/internal/promoter/handler"
	confighandler "totem/internal/tabletconfig/handler"
	kioskhandler "totem/internal/verification/handler"
)

// Deps are the mounted handlers plus the promoter gate.
type Deps struct {
	Kiosk    *kioskhandler.Handler
	Promoter *promoterhandler.Handler
	Config   *confighandler.Handler
	Gate     func(http.Handler) http.Handler
	Logger   *slog.Logger
}

// NewRouter wires all endpoints of the agent.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.ContentTypeJSON)
	// Ceiling above the longest backend deadline (30s register call).
	r.Use(chimw.Timeout(40 * time.Second))

	d.Kiosk.Register(r)
	d.Promoter.Register(r, d.Gate)
	d.Config.Register(r, d.Gate)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
