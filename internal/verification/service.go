package verification

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"totem/internal/identity"
	vmetrics "totem/internal/verification/metrics"
	"totem/pkg/clock"
	dErrors "totem/pkg/domain-errors"
)

// State is the workflow position between user actions.
type State string

const (
	StateIdle                 State = "idle"
	StateChecking             State = "checking"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateRegistering          State = "registering"
)

// pending holds the identifier waiting behind the confirmation gate.
type pending struct {
	identifier string
	method     Method
}

// Workflow is the kiosk state machine. One instance serves one tablet, so a
// single mutex models the original single-user UI: while a check or a
// registration is in flight every second trigger is refused without a network
// call.
type Workflow struct {
	backend Backend
	cfg     ConfigProvider
	mode    ModeProvider

	clk     clock.Clock
	logger  *slog.Logger
	metrics *vmetrics.Metrics
	tracer  trace.Tracer

	mu          sync.Mutex
	state       State
	pending     *pending
	lastOutcome Outcome
	lastMessage string
}

// Option configures optional Workflow collaborators.
type Option func(*Workflow)

func WithClock(c clock.Clock) Option {
	return func(w *Workflow) { w.clk = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Workflow) { w.logger = l }
}

func WithMetrics(m *vmetrics.Metrics) Option {
	return func(w *Workflow) { w.metrics = m }
}

// NewWorkflow wires the state machine. backend, cfg and mode are required.
func NewWorkflow(backend Backend, cfg ConfigProvider, mode ModeProvider, opts ...Option) (*Workflow, error) {
	if backend == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "backend is required")
	}
	if cfg == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "config provider is required")
	}
	if mode == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "mode provider is required")
	}
	w := &Workflow{
		backend: backend,
		cfg:     cfg,
		mode:    mode,
		clk:     clock.System{},
		logger:  slog.Default(),
		tracer:  otel.Tracer("totem/verification"),
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// RegistrationForm carries the new-attendee fields exactly as typed, digits
// already stripped for cpf and phone.
type RegistrationForm struct {
	CPF       string
	Name      string
	LastName  string
	Email     string
	Phone     string
	BirthDate string // DD/MM/YYYY
}

// StepResult is what every workflow operation reports back to the UI.
type StepResult struct {
	Outcome Outcome
	Message string
	// ConfirmationRequired means the workflow stopped at the interactive gate
	// and the next call must be Confirm.
	ConfirmationRequired bool
	// Ignored marks a non-event (empty QR payload, scan while busy): nothing
	// changed and nothing was sent.
	Ignored bool
}

// Snapshot is the observable workflow state for the UI.
type Snapshot struct {
	State         State
	PendingMethod Method
	LastOutcome   Outcome
	LastMessage   string
}

// Snapshot returns the current state without mutating it.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	snap := Snapshot{State: w.state, LastOutcome: w.lastOutcome, LastMessage: w.lastMessage}
	if w.pending != nil {
		snap.PendingMethod = w.pending.method
	}
	return snap
}

// Reset returns the workflow to Idle from any state, discarding a pending
// confirmation. Used when the operator closes the modal or starts over.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = StateIdle
	w.pending = nil
}

// Check runs the existence check for a typed CPF. The CPF must be 11 digits;
// anything else is rejected before any network traffic.
func (w *Workflow) Check(ctx context.Context, rawCPF string) (StepResult, error) {
	cpf := identity.StripDigits(rawCPF)
	if !identity.ValidCPF(cpf) {
		return StepResult{}, dErrors.New(dErrors.CodeBadRequest, "CPF must have 11 digits")
	}

	if err := w.enter(StateChecking); err != nil {
		return StepResult{}, err
	}

	mode := w.mode.Mode()
	stand, err := w.cfg.StandContext(ctx)
	if err != nil {
		w.leave(StateIdle, nil, OutcomeError, "")
		return StepResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not load tablet configuration")
	}

	ctx, span := w.tracer.Start(ctx, "verification.check",
		trace.WithAttributes(
			attribute.String("mode", string(mode)),
			attribute.String("stand", stand.StandName),
		))
	defer span.End()

	w.callStarted()
	res, err := w.backend.CheckCPF(ctx, CheckRequest{
		Mode:      mode,
		Stand:     stand,
		CPF:       cpf,
		CheckedAt: clock.Stamp(w.clk.Now()),
	})
	w.callFinished()
	if err != nil {
		w.observeCheck(string(OutcomeError))
		w.leave(StateIdle, nil, OutcomeError, "")
		w.logger.WarnContext(ctx, "cpf check failed", "mode", mode, "error", err)
		return StepResult{}, err
	}

	w.observeCheck(string(res.Outcome))
	w.logger.InfoContext(ctx, "cpf check classified", "mode", mode, "outcome", res.Outcome)

	switch res.Outcome {
	case OutcomeFound:
		w.leave(StateAwaitingConfirmation, &pending{identifier: cpf, method: MethodCPF}, OutcomeFound, res.Message)
		return StepResult{Outcome: OutcomeFound, ConfirmationRequired: true}, nil
	case OutcomeNotFound:
		w.leave(StateIdle, nil, OutcomeNotFound, res.Message)
		return StepResult{Outcome: OutcomeNotFound, Message: res.Message}, nil
	case OutcomeAlreadyDone:
		w.leave(StateIdle, nil, OutcomeAlreadyDone, res.Message)
		return StepResult{Outcome: OutcomeAlreadyDone, Message: res.Message}, nil
	default:
		w.leave(StateIdle, nil, OutcomeError, res.Message)
		return StepResult{}, classificationError("could not verify CPF", mode, res)
	}
}

// Scan admits a QR payload into the confirmation gate. An empty payload after
// trimming is a non-scan; a scan while another operation is pending is
// suppressed, matching the camera guards of the kiosk UI.
func (w *Workflow) Scan(ctx context.Context, payload string) (StepResult, error) {
	trimmed := identity.TrimQRPayload(payload)
	if trimmed == "" {
		return StepResult{Ignored: true}, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateIdle {
		w.logger.DebugContext(ctx, "scan suppressed", "state", w.state)
		return StepResult{Ignored: true}, nil
	}
	w.state = StateAwaitingConfirmation
	w.pending = &pending{identifier: trimmed, method: MethodQRCode}
	return StepResult{Outcome: OutcomeFound, ConfirmationRequired: true}, nil
}

// Confirm answers the interactive gate. Declining ends the workflow neutrally
// with no further network call; accepting fires the activity registration with
// a freshly generated timestamp.
func (w *Workflow) Confirm(ctx context.Context, accept bool) (StepResult, error) {
	w.mu.Lock()
	if w.state != StateAwaitingConfirmation || w.pending == nil {
		w.mu.Unlock()
		return StepResult{}, dErrors.New(dErrors.CodeConflict, "no verification awaiting confirmation")
	}
	p := *w.pending
	if !accept {
		w.state = StateIdle
		w.pending = nil
		w.lastOutcome = OutcomeDeclined
		w.lastMessage = ""
		w.mu.Unlock()
		if w.metrics != nil {
			w.metrics.IncrementDeclined()
		}
		return StepResult{Outcome: OutcomeDeclined}, nil
	}
	w.state = StateRegistering
	w.pending = nil
	w.mu.Unlock()

	mode := w.mode.Mode()
	stand, err := w.cfg.StandContext(ctx)
	if err != nil {
		w.leave(StateIdle, nil, OutcomeError, "")
		return StepResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not load tablet configuration")
	}

	ctx, span := w.tracer.Start(ctx, "verification.register_activity",
		trace.WithAttributes(
			attribute.String("mode", string(mode)),
			attribute.String("method", string(p.method)),
		))
	defer span.End()

	w.callStarted()
	res, err := w.backend.RegisterActivity(ctx, ActivityRequest{
		Mode:       mode,
		Stand:      stand,
		Identifier: p.identifier,
		Method:     p.method,
		AttemptAt:  clock.Stamp(w.clk.Now()),
	})
	w.callFinished()
	if err != nil {
		w.observeActivity(string(OutcomeError))
		w.leave(StateIdle, nil, OutcomeError, "")
		w.logger.WarnContext(ctx, "activity registration failed", "mode", mode, "error", err)
		return StepResult{}, err
	}

	w.observeActivity(string(res.Outcome))
	w.logger.InfoContext(ctx, "activity registration classified", "mode", mode, "outcome", res.Outcome)

	switch res.Outcome {
	case OutcomeSuccess:
		w.leave(StateIdle, nil, OutcomeSuccess, res.Message)
		return StepResult{Outcome: OutcomeSuccess}, nil
	case OutcomeAlreadyDone:
		w.leave(StateIdle, nil, OutcomeAlreadyDone, res.Message)
		return StepResult{Outcome: OutcomeAlreadyDone, Message: res.Message}, nil
	default:
		w.leave(StateIdle, nil, OutcomeError, res.Message)
		return StepResult{}, classificationError("could not register activity", mode, res)
	}
}

// Register creates a new attendee. All fields are required and the 18+ gate
// runs before any network call. On success the workflow stops at the
// confirmation gate so the operator can choose to also log attendance.
func (w *Workflow) Register(ctx context.Context, form RegistrationForm) (StepResult, error) {
	if err := validateForm(form); err != nil {
		return StepResult{}, err
	}
	if err := identity.CheckAge(form.BirthDate, w.clk.Now()); err != nil {
		return StepResult{}, err
	}
	birthISO, err := identity.BirthDateToISO(form.BirthDate)
	if err != nil {
		return StepResult{}, err
	}

	if err := w.enter(StateRegistering); err != nil {
		return StepResult{}, err
	}

	mode := w.mode.Mode()
	stand, err := w.cfg.StandContext(ctx)
	if err != nil {
		w.leave(StateIdle, nil, OutcomeError, "")
		return StepResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not load tablet configuration")
	}

	ctx, span := w.tracer.Start(ctx, "verification.register_attendee",
		trace.WithAttributes(attribute.String("mode", string(mode))))
	defer span.End()

	w.callStarted()
	res, err := w.backend.RegisterAttendee(ctx, RegisterRequest{
		Mode:         mode,
		Stand:        stand,
		CPF:          form.CPF,
		Name:         strings.TrimSpace(form.Name + " " + form.LastName),
		Email:        form.Email,
		Phone:        form.Phone,
		BirthDateISO: birthISO,
		CreatedAt:    clock.Stamp(w.clk.Now()),
	})
	w.callFinished()
	if err != nil {
		w.observeRegistration(string(OutcomeError))
		w.leave(StateIdle, nil, OutcomeError, "")
		w.logger.WarnContext(ctx, "attendee registration failed", "mode", mode, "error", err)
		return StepResult{}, err
	}

	w.observeRegistration(string(res.Outcome))
	w.logger.InfoContext(ctx, "attendee registration classified", "mode", mode, "outcome", res.Outcome)

	if res.Outcome != OutcomeSuccess {
		w.leave(StateIdle, nil, OutcomeError, res.Message)
		return StepResult{}, classificationError("could not register attendee", mode, res)
	}

	w.leave(StateAwaitingConfirmation,
		&pending{identifier: form.CPF, method: MethodCPF},
		OutcomeSuccess, res.Message)
	return StepResult{Outcome: OutcomeSuccess, ConfirmationRequired: true}, nil
}

// enter claims the workflow for a new in-flight operation. A second trigger
// while busy produces no state change and no network call.
func (w *Workflow) enter(next State) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case StateIdle:
		w.state = next
		return nil
	case StateAwaitingConfirmation:
		return dErrors.New(dErrors.CodeConflict, "a verification is awaiting confirmation; confirm or reset first")
	default:
		return dErrors.New(dErrors.CodeConflict, "a verification is already in progress")
	}
}

// leave records the terminal outcome of the operation and releases the lock
// over the state machine.
func (w *Workflow) leave(next State, p *pending, outcome Outcome, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = next
	w.pending = p
	w.lastOutcome = outcome
	w.lastMessage = message
}

func validateForm(form RegistrationForm) error {
	if form.Name == "" || form.LastName == "" || form.Email == "" ||
		form.Phone == "" || form.BirthDate == "" || form.CPF == "" {
		return dErrors.New(dErrors.CodeBadRequest, "all fields are required")
	}
	if !identity.ValidCPF(form.CPF) {
		return dErrors.New(dErrors.CodeBadRequest, "CPF must have 11 digits")
	}
	return nil
}

// classificationError surfaces a generic backend refusal, keeping the business
// message when the backend provided one.
func classificationError(context string, mode Mode, res Result) error {
	if res.Message != "" {
		return dErrors.Newf(dErrors.CodeUnavailable, "%s (%s): %s", context, mode, res.Message)
	}
	return dErrors.Newf(dErrors.CodeUnavailable, "%s (%s): HTTP %d", context, mode, res.HTTPStatus)
}

func (w *Workflow) observeCheck(outcome string) {
	if w.metrics != nil {
		w.metrics.ObserveCheck(outcome)
	}
}

func (w *Workflow) observeActivity(outcome string) {
	if w.metrics != nil {
		w.metrics.ObserveActivity(outcome)
	}
}

func (w *Workflow) observeRegistration(outcome string) {
	if w.metrics != nil {
		w.metrics.ObserveRegistration(outcome)
	}
}

func (w *Workflow) callStarted() {
	if w.metrics != nil {
		w.metrics.CallStarted()
	}
}

func (w *Workflow) callFinished() {
	if w.metrics != nil {
		w.metrics.CallFinished()
	}
}
