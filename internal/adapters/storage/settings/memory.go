package settings

import (
	"context"
	"sync"

	"gymdesk/internal/domain/partnerconfig"
)

// MemoryPartnerConfig is an in-process partnerconfig.Repository for tests and demos.
type MemoryPartnerConfig struct {
	mu    sync.Mutex
	value *partnerconfig.Settings
	// LoadErr, when set, is returned by Load.
	LoadErr error
}

var _ partnerconfig.Repository = (*MemoryPartnerConfig)(nil)

// NewMemoryPartnerConfig returns a repository preloaded with s, or empty when s is nil.
func NewMemoryPartnerConfig(s *partnerconfig.Settings) *MemoryPartnerConfig {
	m := &MemoryPartnerConfig{}
	if s != nil {
		v := *s
		m.value = &v
	}
	return m
}

// Load returns the stored settings or the defaults.
func (m *MemoryPartnerConfig) Load(_ context.Context) (partnerconfig.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return partnerconfig.Settings{}, m.LoadErr
	}
	if m.value == nil {
		return partnerconfig.Default(), nil
	}
	return *m.value, nil
}

// Save replaces the stored settings.
func (m *MemoryPartnerConfig) Save(_ context.Context, s partnerconfig.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = &s
	return nil
}
