// Package verification implements the attendee check-in workflow: an
// existence check for a CPF, an interactive confirmation gate, and the
// activity registration that follows it. The same workflow serves typed CPFs,
// scanned QR payloads and brand-new attendee registrations, against either the
// production cloud API or a LAN server at the venue.
package verification

import "context"

// Mode selects which backend dialect a workflow invocation talks to.
type Mode string

const (
	ModeProduction Mode = "production"
	ModeLocal      Mode = "local"
)

// Valid reports whether m is one of the two known modes.
func (m Mode) Valid() bool {
	return m == ModeProduction || m == ModeLocal
}

// Method tags how the attendee was identified.
type Method string

const (
	MethodCPF    Method = "cpf"
	MethodQRCode Method = "qrcode"
)

// StandContext is the tablet's identity for a single invocation. It is
// re-read from configuration on every workflow call so promoter changes apply
// immediately.
type StandContext struct {
	StandName  string // lowercased activity identifier, e.g. "the one"
	TabletName string
	BaseURL    string // local mode only
}

// CheckRequest asks the backend whether a CPF is already registered.
type CheckRequest struct {
	Mode      Mode
	Stand     StandContext
	CPF       string // canonical 11 digits
	CheckedAt string // wire timestamp; the local check body omits it
}

// ActivityRequest logs attendance against the configured stand.
type ActivityRequest struct {
	Mode       Mode
	Stand      StandContext
	Identifier string // CPF digits or trimmed QR payload
	Method     Method
	AttemptAt  string
}

// RegisterRequest creates a new attendee record.
type RegisterRequest struct {
	Mode         Mode
	Stand        StandContext
	CPF          string // canonical 11 digits
	Name         string // full name, already joined
	Email        string
	Phone        string // canonical digits
	BirthDateISO string // YYYY-MM-DD
	CreatedAt    string
}

// Result is the classified response of a single backend call.
type Result struct {
	Outcome    Outcome
	Message    string // business message extracted from the response, if any
	HTTPStatus int
}

// Backend performs the remote calls for both dialects. Implemented by the
// backend package; mocked in workflow tests.
type Backend interface {
	CheckCPF(ctx context.Context, req CheckRequest) (Result, error)
	RegisterActivity(ctx context.Context, req ActivityRequest) (Result, error)
	RegisterAttendee(ctx context.Context, req RegisterRequest) (Result, error)
}

// ConfigProvider supplies the tablet identity. Read at the start of every
// invocation, never cached across them.
type ConfigProvider interface {
	StandContext(ctx context.Context) (StandContext, error)
}

// ModeProvider exposes the promoter-controlled operating mode. Workflows only
// read it; the single writer lives behind the promoter gate.
type ModeProvider interface {
	Mode() Mode
}
