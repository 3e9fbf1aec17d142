// Package promoter holds the on-site operator surface: password login, the
// operating-mode toggle and the short-lived token that gates both the mode
// toggle and the admin settings.
package promoter

import (
	"sync"

	"totem/internal/verification"
)

// ModeHolder is the process-wide operating mode. Workflows read it; only the
// promoter endpoints write it.
type ModeHolder struct {
	mu   sync.RWMutex
	mode verification.Mode
}

// NewModeHolder starts in production mode, the boot default of the kiosk.
func NewModeHolder() *ModeHolder {
	return &ModeHolder{mode: verification.ModeProduction}
}

// Mode implements verification.ModeProvider.
func (m *ModeHolder) Mode() verification.Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

func (m *ModeHolder) Set(mode verification.Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
}
