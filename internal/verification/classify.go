package verification

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

// Phase distinguishes the two call sites that share the classifier. A handful
// of rules only make sense when asking "does this CPF exist?".
type Phase int

const (
	PhaseCheck Phase = iota
	PhaseActivity
	PhaseRegister
)

// Outcome is the classification of a single backend response. AlreadyDone and
// NotFound are business outcomes, not errors; they drive their own UI paths.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeAlreadyDone Outcome = "already_done"
	OutcomeNotFound    Outcome = "not_found"
	// OutcomeFound is a check-phase intermediate: the record exists and the
	// caller must obtain explicit consent before registering the activity.
	OutcomeFound    Outcome = "found"
	OutcomeDeclined Outcome = "declined"
	OutcomeError    Outcome = "error"
)

// Envelope is the union of every response shape the two backend dialects
// produce for the same semantics. The production API reports sucesso/erros,
// the legacy local server reports status/erro/message; both are mapped here
// and nowhere else.
type Envelope struct {
	Sucesso *bool           `json:"sucesso"`
	Status  string          `json:"status"`
	Erros   json.RawMessage `json:"erros"` // object, string, or absent
	Erro    string          `json:"erro"`
	Message string          `json:"message"`
	Dados   *Dados          `json:"dados"`
	Usuario json.RawMessage `json:"usuario"`
}

// Dados carries the production check verdict.
type Dados struct {
	Existe *bool `json:"existe"`
}

// ParseEnvelope decodes a response body tolerantly: anything that is not a
// JSON object comes back nil and classifies as a generic error.
func ParseEnvelope(body []byte) *Envelope {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	return &env
}

// ErrorMessage extracts the first non-empty error string, case preserved:
// erros.erro, then erro, then message.
func (e *Envelope) ErrorMessage() string {
	if msg := e.errosMessage(); msg != "" {
		return msg
	}
	if e.Erro != "" {
		return e.Erro
	}
	return e.Message
}

// errosMessage digs into the "erros" field, which the production API ships
// either as {"erro": "..."}, as a map of field errors, or as a bare string. A
// field-error map yields every value, newline-joined in key order, so a
// registration rejected on several fields reports all of them at once.
func (e *Envelope) errosMessage() string {
	if len(e.Erros) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Erros, &s); err == nil {
		return s
	}
	var m map[string]any
	if err := json.Unmarshal(e.Erros, &m); err != nil {
		return ""
	}
	if v, ok := m["erro"].(string); ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}

// alreadyDoneMarkers are the substrings both dialects use to say the attendee
// has already completed this activity.
var alreadyDoneMarkers = []string{"já realizada", "já registrada"}

// notFoundMarker is what the local check dialect says for an unknown CPF.
const notFoundMarker = "não encontrado"

// Classify turns a parsed response and HTTP status into an Outcome.
//
// Precedence, identical for both phases and both dialects:
//  1. nil envelope (unparseable body) is a generic error.
//  2. sucesso == false is authoritative, even over a "success" status: the
//     error message decides between AlreadyDone and generic error.
//  3. sucesso == true or status == "success" is a success; in the check phase
//     that means the record exists, which is the Found intermediate.
//  4. Check phase only: HTTP 400 means the CPF is unknown (legacy contract).
//  5. Check phase only: dados.existe decides Found vs NotFound.
//  6. Check phase only: a status "error" whose message says the CPF was not
//     found maps to NotFound (local dialect).
//  7. Everything else is a generic error.
func Classify(env *Envelope, httpStatus int, phase Phase) Outcome {
	if env == nil {
		return OutcomeError
	}

	if env.Sucesso != nil && !*env.Sucesso {
		msg := strings.ToLower(env.ErrorMessage())
		for _, marker := range alreadyDoneMarkers {
			if strings.Contains(msg, marker) {
				return OutcomeAlreadyDone
			}
		}
		return OutcomeError
	}

	if (env.Sucesso != nil && *env.Sucesso) || strings.EqualFold(env.Status, "success") {
		if phase == PhaseCheck {
			return OutcomeFound
		}
		return OutcomeSuccess
	}

	if phase == PhaseCheck {
		if httpStatus == http.StatusBadRequest {
			return OutcomeNotFound
		}
		if env.Dados != nil && env.Dados.Existe != nil {
			if *env.Dados.Existe {
				return OutcomeFound
			}
			return OutcomeNotFound
		}
		if strings.EqualFold(env.Status, "error") &&
			strings.Contains(strings.ToLower(env.ErrorMessage()), notFoundMarker) {
			return OutcomeNotFound
		}
	}

	return OutcomeError
}
