package promoter

import (
	"context"
	"log/slog"

	"totem/internal/verification"
	dErrors "totem/pkg/domain-errors"
)

// PasswordVerifier is the piece of the settings service the login needs.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, password string) error
}

// Service runs the promoter flows: login and the mode toggle.
type Service struct {
	passwords PasswordVerifier
	issuer    *TokenIssuer
	mode      *ModeHolder
	logger    *slog.Logger
}

func NewService(passwords PasswordVerifier, issuer *TokenIssuer, mode *ModeHolder, logger *slog.Logger) (*Service, error) {
	if passwords == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password verifier is required")
	}
	if issuer == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "token issuer is required")
	}
	if mode == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "mode holder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{passwords: passwords, issuer: issuer, mode: mode, logger: logger}, nil
}

// Login checks the admin password and mints a session token on success.
func (s *Service) Login(ctx context.Context, password string) (string, error) {
	if err := s.passwords.VerifyPassword(ctx, password); err != nil {
		s.logger.WarnContext(ctx, "promoter login rejected")
		return "", err
	}
	token, err := s.issuer.Issue()
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "promoter logged in")
	return token, nil
}

// Mode returns the current operating mode.
func (s *Service) Mode() verification.Mode {
	return s.mode.Mode()
}

// SetMode switches between the production API and the venue's local server.
func (s *Service) SetMode(ctx context.Context, mode verification.Mode) error {
	if !mode.Valid() {
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown mode %q", mode)
	}
	s.mode.Set(mode)
	s.logger.InfoContext(ctx, "operating mode switched", "mode", mode)
	return nil
}
