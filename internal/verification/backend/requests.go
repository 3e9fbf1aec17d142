package backend

import (
	"context"

	"totem/internal/identity"
	"totem/internal/verification"
)

// Wire bodies. The production API receives the formatted CPF
// (000.000.000-00); the local server receives the raw digits. Phone always
// goes formatted. These are observed contracts, not choices.

type checkBody struct {
	CPF             string `json:"cpf"`
	StandName       string `json:"stand_name"`
	TabletName      string `json:"tablet_name"`
	ClientCheckedAt string `json:"client_checked_at,omitempty"`
}

type registerBody struct {
	Name            string `json:"name"`
	CPF             string `json:"cpf"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DateBirthday    string `json:"date_birthday"`
	Source          string `json:"source"`
	StandName       string `json:"stand_name"`
	TabletName      string `json:"tablet_name"`
	ClientCreatedAt string `json:"client_created_at"`
}

// registrationSource tags where the record came from; the backend segments
// promoter-tablet signups from web signups by this value.
const registrationSource = "promoter_tablet"

// CheckCPF asks whether the CPF already has a registration. The local check
// body carries no timestamp; only the production dialect records
// client_checked_at.
func (c *Client) CheckCPF(ctx context.Context, req verification.CheckRequest) (verification.Result, error) {
	body := checkBody{
		StandName:  req.Stand.StandName,
		TabletName: req.Stand.TabletName,
	}

	var url, path string
	if req.Mode == verification.ModeProduction {
		path = "/cpf/status"
		url = c.prodBase + path
		body.CPF = identity.DisplayCPF(req.CPF)
		body.ClientCheckedAt = req.CheckedAt
	} else {
		path = "/verificar-cpf"
		url = localURL(req.Stand, path)
		body.CPF = req.CPF
	}

	env, status, err := c.call(ctx, req.Mode, url, path, body, 0)
	if err != nil {
		return verification.Result{}, err
	}
	return result(env, status, verification.PhaseCheck), nil
}

// activityRoute fixes the endpoint path and timestamp field name per dialect
// and method. The names must match the protocol table exactly:
//
//	production, any method  /activity/validate  client_validated_at (cpf)
//	                                            client_created_at   (qrcode)
//	local, qr scan          /activity-qr        client_validated_at
//	local, cpf              /activity           client_attempt_at
func activityRoute(req verification.ActivityRequest) (path, tsField string) {
	if req.Mode == verification.ModeProduction {
		if req.Method == verification.MethodQRCode {
			return "/activity/validate", "client_created_at"
		}
		return "/activity/validate", "client_validated_at"
	}
	if req.Method == verification.MethodQRCode {
		return "/activity-qr", "client_validated_at"
	}
	return "/activity", "client_attempt_at"
}

// RegisterActivity logs attendance at the configured stand.
func (c *Client) RegisterActivity(ctx context.Context, req verification.ActivityRequest) (verification.Result, error) {
	path, tsField := activityRoute(req)

	wireID := req.Identifier
	if req.Mode == verification.ModeProduction && req.Method == verification.MethodCPF {
		wireID = identity.DisplayCPF(req.Identifier)
	}

	// The timestamp field name varies by route, so the body is assembled as a
	// map instead of a per-route struct zoo.
	body := map[string]string{
		"cpf":         wireID,
		"method":      string(req.Method),
		"stand_name":  req.Stand.StandName,
		"tablet_name": req.Stand.TabletName,
		tsField:       req.AttemptAt,
	}

	url := localURL(req.Stand, path)
	if req.Mode == verification.ModeProduction {
		url = c.prodBase + path
	}

	env, status, err := c.call(ctx, req.Mode, url, path, body, c.activityTimeout)
	if err != nil {
		return verification.Result{}, err
	}
	return result(env, status, verification.PhaseActivity), nil
}

// RegisterAttendee creates a new attendee record.
func (c *Client) RegisterAttendee(ctx context.Context, req verification.RegisterRequest) (verification.Result, error) {
	const path = "/register"

	body := registerBody{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           identity.DisplayPhone(req.Phone),
		DateBirthday:    req.BirthDateISO,
		Source:          registrationSource,
		StandName:       req.Stand.StandName,
		TabletName:      req.Stand.TabletName,
		ClientCreatedAt: req.CreatedAt,
	}

	url := localURL(req.Stand, path)
	if req.Mode == verification.ModeProduction {
		url = c.prodBase + path
		body.CPF = identity.DisplayCPF(req.CPF)
	} else {
		body.CPF = req.CPF
	}

	env, status, err := c.call(ctx, req.Mode, url, path, body, c.registerTimeout)
	if err != nil {
		return verification.Result{}, err
	}
	return result(env, status, verification.PhaseRegister), nil
}
