package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"totem/internal/verification"
	"totem/pkg/platform/httputil"
	"totem/pkg/requestcontext"
)

// Service defines the interface for kiosk workflow operations.
type Service interface {
	Check(ctx context.Context, cpf string) (verification.StepResult, error)
	Scan(ctx context.Context, payload string) (verification.StepResult, error)
	Confirm(ctx context.Context, accept bool) (verification.StepResult, error)
	Register(ctx context.Context, form verification.RegistrationForm) (verification.StepResult, error)
	Reset()
	Snapshot() verification.Snapshot
}

// Handler wires kiosk endpoints to the workflow service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a kiosk handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts kiosk endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/kiosk/check", h.HandleCheck)
	r.Post("/kiosk/scan", h.HandleScan)
	r.Post("/kiosk/confirm", h.HandleConfirm)
	r.Post("/kiosk/register", h.HandleRegister)
	r.Post("/kiosk/reset", h.HandleReset)
	r.Get("/kiosk/state", h.HandleState)
}

// CheckRequest is the wire shape of POST /kiosk/check.
type CheckRequest struct {
	CPF string `json:"cpf"`
}

// ScanRequest is the wire shape of POST /kiosk/scan.
type ScanRequest struct {
	Payload string `json:"payload"`
}

// ConfirmRequest is the wire shape of POST /kiosk/confirm.
type ConfirmRequest struct {
	Accept bool `json:"accept"`
}

// RegisterRequest is the wire shape of POST /kiosk/register.
type RegisterRequest struct {
	CPF       string `json:"cpf"`
	Name      string `json:"name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"`
}

// StepResponse reports a workflow step back to the tablet UI.
type StepResponse struct {
	Outcome              string `json:"outcome"`
	Message              string `json:"message,omitempty"`
	ConfirmationRequired bool   `json:"confirmation_required"`
	Ignored              bool   `json:"ignored,omitempty"`
}

// StateResponse is the wire shape of GET /kiosk/state.
type StateResponse struct {
	State         string `json:"state"`
	PendingMethod string `json:"pending_method,omitempty"`
	LastOutcome   string `json:"last_outcome,omitempty"`
	LastMessage   string `json:"last_message,omitempty"`
}

func fromStep(res verification.StepResult) StepResponse {
	return StepResponse{
		Outcome:              string(res.Outcome),
		Message:              res.Message,
		ConfirmationRequired: res.ConfirmationRequired,
		Ignored:              res.Ignored,
	}
}

// HandleCheck handles POST /kiosk/check requests.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Check(ctx, req.CPF)
	if err != nil {
		h.logger.ErrorContext(ctx, "cpf check failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "cpf check completed",
		"request_id", requestID,
		"outcome", res.Outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromStep(res))
}

// HandleScan handles POST /kiosk/scan requests.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ScanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Scan(ctx, req.Payload)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromStep(res))
}

// HandleConfirm handles POST /kiosk/confirm requests.
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ConfirmRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Confirm(ctx, req.Accept)
	if err != nil {
		h.logger.ErrorContext(ctx, "confirmation failed",
			"request_id", requestID,
			"accept", req.Accept,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "confirmation completed",
		"request_id", requestID,
		"accept", req.Accept,
		"outcome", res.Outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromStep(res))
}

// HandleRegister handles POST /kiosk/register requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Register(ctx, verification.RegistrationForm{
		CPF:       req.CPF,
		Name:      req.Name,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "attendee registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "attendee registration completed",
		"request_id", requestID,
		"outcome", res.Outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromStep(res))
}

// HandleReset handles POST /kiosk/reset requests.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.service.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// HandleState handles GET /kiosk/state requests.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Snapshot()
	httputil.WriteJSON(w, http.StatusOK, StateResponse{
		State:         string(snap.State),
		PendingMethod: string(snap.PendingMethod),
		LastOutcome:   string(snap.LastOutcome),
		LastMessage:   snap.LastMessage,
	})
}
