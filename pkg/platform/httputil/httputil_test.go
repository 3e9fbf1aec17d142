package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "totem/pkg/domain-errors"
)

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		status          int
		wantCode        string
		wantDescription string
	}{
		{
			name:            "busy workflow maps to conflict with its message",
			err:             dErrors.New(dErrors.CodeConflict, "a verification is already in progress"),
			status:          http.StatusConflict,
			wantCode:        "conflict",
			wantDescription: "a verification is already in progress",
		},
		{
			name:            "unreachable backend maps to bad gateway",
			err:             dErrors.New(dErrors.CodeUnavailable, "could not register activity (local): dial tcp refused"),
			status:          http.StatusBadGateway,
			wantCode:        "unavailable",
			wantDescription: "could not register activity (local): dial tcp refused",
		},
		{
			name:            "wrong promoter password maps to unauthorized",
			err:             dErrors.New(dErrors.CodeUnauthorized, "invalid password"),
			status:          http.StatusUnauthorized,
			wantCode:        "unauthorized",
			wantDescription: "invalid password",
		},
		{
			name:            "short cpf maps to bad request with its message",
			err:             dErrors.New(dErrors.CodeBadRequest, "CPF must have 11 digits"),
			status:          http.StatusBadRequest,
			wantCode:        "bad_request",
			wantDescription: "CPF must have 11 digits",
		},
		{
			name:     "internal error never leaks its message",
			err:      dErrors.Wrap(assertError("sqlite: disk I/O error"), dErrors.CodeInternal, "could not load tablet configuration"),
			status:   http.StatusInternalServerError,
			wantCode: "internal",
		},
		{
			name:     "invariant violation never leaks its message",
			err:      dErrors.New(dErrors.CodeInvariantViolation, "backend is required"),
			status:   http.StatusConflict,
			wantCode: "invariant_violation",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			body := decodeErrorBody(t, w)
			assert.Equal(t, tt.wantCode, body["error"])
			if tt.wantDescription == "" {
				_, leaked := body["error_description"]
				assert.False(t, leaked, "internals must not reach the tablet UI")
			} else {
				assert.Equal(t, tt.wantDescription, body["error_description"])
			}
		})
	}
}

// assertError is a plain non-domain error for wrap fixtures.
type assertError string

func (e assertError) Error() string { return string(e) }

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]any{"outcome": "confirmation_required"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"outcome":"confirmation_required"}`, w.Body.String())
}

func TestDecodeAndPrepare(t *testing.T) {
	type checkPayload struct {
		CPF string `json:"cpf"`
	}
	logger := slog.Default()

	t.Run("valid body decodes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/kiosk/check", strings.NewReader(`{"cpf":"12345678901"}`))
		w := httptest.NewRecorder()

		req, ok := DecodeAndPrepare[checkPayload](w, r, logger, r.Context(), "req-1")
		require.True(t, ok)
		assert.Equal(t, "12345678901", req.CPF)
	})

	t.Run("garbage body answers bad_request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/kiosk/check", strings.NewReader("cpf=12345678901"))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[checkPayload](w, r, logger, r.Context(), "req-2")
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeErrorBody(t, w)["error"])
	})
}
