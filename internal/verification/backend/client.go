// Package backend implements the two backend dialects behind one client: the
// production cloud API (token-authenticated, sucesso/erros shapes) and the
// legacy LAN server run at the venue (no auth, status/erro shapes). Endpoint
// paths and timestamp field names are a fixed protocol table; the backends
// reject anything else, so none of it is configurable.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"totem/internal/verification"
	dErrors "totem/pkg/domain-errors"
)

const (
	// APIBaseURL is the compiled-in production endpoint. There is no runtime
	// override; swapping servers at an event is what local mode is for.
	APIBaseURL = "http://ec2-54-233-101-11.sa-east-1.compute.amazonaws.com:3333"

	// APIToken is the static shared secret the production API expects in the
	// Token header. Local mode sends no auth at all.
	APIToken = "f8331af6befa173f8cec0bc46df542"
)

const (
	activityTimeout = 15 * time.Second
	registerTimeout = 30 * time.Second
	// The check call carries no explicit deadline of its own; it rides on the
	// client-wide timeout.
	clientTimeout = 30 * time.Second
)

// maxResponseBytes caps how much of a response body is read before the
// tolerant JSON parse. Real responses are tiny.
const maxResponseBytes = 1 << 20

// Client implements verification.Backend for both dialects.
type Client struct {
	http   *http.Client
	logger *slog.Logger
	tracer trace.Tracer

	prodBase string
	token    string

	activityTimeout time.Duration
	registerTimeout time.Duration
}

// Option overrides Client defaults; used by tests to point at httptest
// servers and shrink timeouts.
type Option func(*Client)

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithProductionBase(base string) Option {
	return func(c *Client) { c.prodBase = base }
}

func WithTimeouts(activity, register time.Duration) Option {
	return func(c *Client) {
		c.activityTimeout = activity
		c.registerTimeout = register
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		http:            &http.Client{Timeout: clientTimeout},
		logger:          slog.Default(),
		tracer:          otel.Tracer("totem/backend"),
		prodBase:        APIBaseURL,
		token:           APIToken,
		activityTimeout: activityTimeout,
		registerTimeout: registerTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call performs one JSON POST under an optional deadline and returns the
// tolerantly parsed envelope plus the HTTP status. The deadline's timer is
// released on every exit path by the deferred cancel, never just the happy
// one.
func (c *Client) call(ctx context.Context, mode verification.Mode, url, path string, body any, timeout time.Duration) (*verification.Envelope, int, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "could not encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "could not build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if mode == verification.ModeProduction {
		req.Header.Set("Token", c.token)
	}

	ctx, span := c.tracer.Start(ctx, "backend.post",
		trace.WithAttributes(
			attribute.String("mode", string(mode)),
			attribute.String("path", path),
		))
	defer span.End()

	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		c.logger.WarnContext(ctx, "backend unreachable", "mode", mode, "path", path, "error", err)
		if mode == verification.ModeLocal {
			// Local failures name the endpoint so on-site staff can debug the
			// LAN server without adb access.
			return nil, 0, dErrors.Wrap(err, dErrors.CodeUnavailable,
				"could not reach local backend endpoint "+path+": "+err.Error())
		}
		return nil, 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not reach production API")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not read response body")
	}

	// A non-JSON body parses to nil and classifies as a generic error
	// downstream; transport succeeded, so this is not an error here.
	return verification.ParseEnvelope(raw), resp.StatusCode, nil
}

func localURL(stand verification.StandContext, path string) string {
	return stand.BaseURL + path
}

func result(env *verification.Envelope, status int, phase verification.Phase) verification.Result {
	res := verification.Result{
		Outcome:    verification.Classify(env, status, phase),
		HTTPStatus: status,
	}
	if env != nil {
		res.Message = env.ErrorMessage()
	}
	return res
}
