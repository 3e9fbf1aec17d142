package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"totem/internal/verification"
	"totem/pkg/platform/httputil"
	"totem/pkg/requestcontext"
)

// Service defines the interface for promoter operations.
type Service interface {
	Login(ctx context.Context, password string) (string, error)
	Mode() verification.Mode
	SetMode(ctx context.Context, mode verification.Mode) error
}

// Handler wires the promoter endpoints to the promoter service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the promoter endpoints. Login and the mode read are open;
// the mode toggle sits behind the gate.
func (h *Handler) Register(r chi.Router, gate func(http.Handler) http.Handler) {
	r.Post("/promoter/login", h.HandleLogin)
	r.Get("/promoter/mode", h.HandleGetMode)
	r.Group(func(r chi.Router) {
		r.Use(gate)
		r.Put("/promoter/mode", h.HandleSetMode)
	})
}

// LoginRequest is the wire shape of POST /promoter/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// ModeRequest is the wire shape of PUT /promoter/mode.
type ModeRequest struct {
	Mode string `json:"mode"`
}

// ModeResponse is the wire shape of GET /promoter/mode.
type ModeResponse struct {
	Mode string `json:"mode"`
}

// HandleLogin handles POST /promoter/login requests.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	token, err := h.service.Login(ctx, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// HandleGetMode handles GET /promoter/mode requests.
func (h *Handler) HandleGetMode(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, ModeResponse{Mode: string(h.service.Mode())})
}

// HandleSetMode handles PUT /promoter/mode requests.
func (h *Handler) HandleSetMode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ModeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.SetMode(ctx, verification.Mode(req.Mode)); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "mode toggled",
		"request_id", requestID,
		"mode", req.Mode,
	)
	httputil.WriteJSON(w, http.StatusOK, ModeResponse{Mode: string(h.service.Mode())})
}
