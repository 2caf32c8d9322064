//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// StubToolchainFactory hands out the same toolchain on every Build.
type StubToolchainFactory struct {
	Toolchain *repositories.Toolchain
	Err       error

	BuildCallCount int
	LastSettings   *entities.Settings
}

var _ repositories.ToolchainFactory = (*StubToolchainFactory)(nil)

func (s *StubToolchainFactory) Build(settings *entities.Settings) (*repositories.Toolchain, error) {
	s.BuildCallCount++
	s.LastSettings = settings
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Toolchain, nil
}
