package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"totem/internal/tabletconfig"
	"totem/pkg/platform/httputil"
	"totem/pkg/requestcontext"
)

// Service defines the interface for settings operations.
type Service interface {
	Load(ctx context.Context) (tabletconfig.Config, error)
	Update(ctx context.Context, upd tabletconfig.Update) (tabletconfig.Config, error)
}

// Handler wires the admin settings endpoints to the settings service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the settings endpoints behind the promoter gate.
func (h *Handler) Register(r chi.Router, gate func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(gate)
		r.Get("/admin/config", h.HandleGet)
		r.Put("/admin/config", h.HandleUpdate)
	})
}

// ConfigResponse is the settings snapshot for the admin screen. The password
// is write-only and never serialized.
type ConfigResponse struct {
	StandName    string `json:"stand_name"`
	TabletName   string `json:"tablet_name"`
	LocalBaseURL string `json:"local_base_url"`
}

// UpdateRequest is the wire shape of PUT /admin/config. Absent fields keep
// their current values.
type UpdateRequest struct {
	StandName    *string `json:"stand_name"`
	TabletName   *string `json:"tablet_name"`
	LocalBaseURL *string `json:"local_base_url"`
	NewPassword  *string `json:"new_password"`
}

func fromConfig(cfg tabletconfig.Config) ConfigResponse {
	return ConfigResponse{
		StandName:    cfg.StandName,
		TabletName:   cfg.TabletName,
		LocalBaseURL: cfg.LocalBaseURL,
	}
}

// HandleGet handles GET /admin/config requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, err := h.service.Load(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load configuration",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromConfig(cfg))
}

// HandleUpdate handles PUT /admin/config requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[UpdateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	cfg, err := h.service.Update(ctx, tabletconfig.Update{
		StandName:    req.StandName,
		TabletName:   req.TabletName,
		LocalBaseURL: req.LocalBaseURL,
		NewPassword:  req.NewPassword,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update configuration",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "configuration updated",
		"request_id", requestID,
		"stand_name", cfg.StandName,
		"tablet_name", cfg.TabletName,
	)
	httputil.WriteJSON(w, http.StatusOK, fromConfig(cfg))
}
