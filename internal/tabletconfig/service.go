package tabletconfig

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"totem/internal/tabletconfig/store"
	"totem/internal/verification"
	dErrors "totem/pkg/domain-errors"
	"totem/pkg/platform/sentinel"
)

// Service reads and writes tablet settings. Every read goes to the store, so
// a promoter change applies to the very next verification without a restart.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

func NewService(st store.Store, logger *slog.Logger) (*Service, error) {
	if st == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}, nil
}

// EnsureDefaults writes factory values for any key missing from the store.
// Existing values are never touched.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	defaults := map[string]string{
		KeyStandName:     DefaultStandName,
		KeyTabletName:    DefaultTabletName,
		KeyLocalBaseURL:  DefaultLocalBaseURL,
		KeyAdminPassword: DefaultAdminPassword,
	}
	for key, value := range defaults {
		_, err := s.store.Get(ctx, key)
		if errors.Is(err, sentinel.ErrNotFound) {
			if err := s.store.Set(ctx, key, value); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "could not seed default configuration")
			}
			s.logger.InfoContext(ctx, "seeded default configuration", "key", key)
			continue
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "could not read configuration")
		}
	}
	return nil
}

// Load returns the full settings snapshot, password included. Handlers must
// not serialize the password field.
func (s *Service) Load(ctx context.Context) (Config, error) {
	var cfg Config
	var err error
	if cfg.StandName, err = s.get(ctx, KeyStandName, DefaultStandName); err != nil {
		return Config{}, err
	}
	if cfg.TabletName, err = s.get(ctx, KeyTabletName, DefaultTabletName); err != nil {
		return Config{}, err
	}
	if cfg.LocalBaseURL, err = s.get(ctx, KeyLocalBaseURL, DefaultLocalBaseURL); err != nil {
		return Config{}, err
	}
	if cfg.AdminPassword, err = s.get(ctx, KeyAdminPassword, DefaultAdminPassword); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (s *Service) get(ctx context.Context, key, fallback string) (string, error) {
	v, err := s.store.Get(ctx, key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not read configuration")
	}
	return v, nil
}

// Update carries the fields a promoter may change. Nil means keep current.
type Update struct {
	StandName    *string
	TabletName   *string
	LocalBaseURL *string
	NewPassword  *string
}

// Update applies the non-nil fields and returns the resulting snapshot.
// The stand name is lowercased because the backends match it case-sensitively
// against lowercase stand records.
func (s *Service) Update(ctx context.Context, upd Update) (Config, error) {
	if upd.StandName != nil {
		name := strings.ToLower(strings.TrimSpace(*upd.StandName))
		if name == "" {
			return Config{}, dErrors.New(dErrors.CodeBadRequest, "stand name cannot be empty")
		}
		if err := s.set(ctx, KeyStandName, name); err != nil {
			return Config{}, err
		}
	}
	if upd.TabletName != nil {
		name := strings.TrimSpace(*upd.TabletName)
		if name == "" {
			return Config{}, dErrors.New(dErrors.CodeBadRequest, "tablet name cannot be empty")
		}
		if err := s.set(ctx, KeyTabletName, name); err != nil {
			return Config{}, err
		}
	}
	if upd.LocalBaseURL != nil {
		normalized := NormalizeBaseURL(*upd.LocalBaseURL)
		if normalized == "" {
			return Config{}, dErrors.New(dErrors.CodeBadRequest, "local base URL cannot be empty")
		}
		if err := s.set(ctx, KeyLocalBaseURL, normalized); err != nil {
			return Config{}, err
		}
	}
	if upd.NewPassword != nil {
		if *upd.NewPassword == "" {
			return Config{}, dErrors.New(dErrors.CodeBadRequest, "password cannot be empty")
		}
		if err := s.set(ctx, KeyAdminPassword, *upd.NewPassword); err != nil {
			return Config{}, err
		}
	}
	return s.Load(ctx)
}

func (s *Service) set(ctx context.Context, key, value string) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not write configuration")
	}
	s.logger.InfoContext(ctx, "configuration updated", "key", key)
	return nil
}

// VerifyPassword compares the supplied password with the stored one. Exact
// match against plain text at rest: the password protects a settings screen
// on a physically supervised device, not an account.
func (s *Service) VerifyPassword(ctx context.Context, password string) error {
	stored, err := s.get(ctx, KeyAdminPassword, DefaultAdminPassword)
	if err != nil {
		return err
	}
	if password != stored {
		return dErrors.New(dErrors.CodeUnauthorized, "wrong password")
	}
	return nil
}

// StandContext implements verification.ConfigProvider with a fresh read per
// call.
func (s *Service) StandContext(ctx context.Context) (verification.StandContext, error) {
	cfg, err := s.Load(ctx)
	if err != nil {
		return verification.StandContext{}, err
	}
	return verification.StandContext{
		StandName:  cfg.StandName,
		TabletName: cfg.TabletName,
		BaseURL:    cfg.LocalBaseURL,
	}, nil
}

// NormalizeBaseURL trims whitespace, defaults the scheme to http:// and strips
// a trailing slash so path joining stays predictable.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "http://" + u
	}
	return strings.TrimSuffix(u, "/")
}
