//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/imagebump/internal/domain/commands"
	"github.com/rios0rios0/imagebump/internal/domain/entities"
)

// StubVersionsCommand is a stub implementation of commands.Versions.
type StubVersionsCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Images           []entities.TrackedImage
	LastSettings     *entities.Settings
	LastOpts         commands.VersionsOptions
}

var _ commands.Versions = (*StubVersionsCommand)(nil)

func (s *StubVersionsCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.VersionsOptions,
) ([]entities.TrackedImage, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.Images, s.ExecuteErr
}
