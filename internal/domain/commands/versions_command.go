package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// Versions is the interface for the versions command (read-only listing).
type Versions interface {
	Execute(ctx context.Context, settings *entities.Settings, opts VersionsOptions) ([]entities.TrackedImage, error)
}

// VersionsOptions holds runtime options for a listing.
type VersionsOptions struct {
	Verbose bool
	Only    string
}

// VersionsCommand resolves the latest version of every tracked image
// without creating branches or requests.
type VersionsCommand struct {
	factory repositories.ToolchainFactory
}

// NewVersionsCommand creates a new VersionsCommand.
func NewVersionsCommand(factory repositories.ToolchainFactory) *VersionsCommand {
	return &VersionsCommand{factory: factory}
}

// Execute lists the tracked images. Images whose latest version cannot be
// resolved are returned in the failed state.
func (it *VersionsCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts VersionsOptions,
) ([]entities.TrackedImage, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	toolchain, err := it.factory.Build(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to build toolchain: %w", err)
	}

	images, _, err := discoverImages(ctx, toolchain, settings, opts.Only)
	if err != nil {
		return nil, err
	}

	for i := range images {
		image := &images[i]
		if resolveErr := resolveLatest(ctx, toolchain.Oracle, image); resolveErr != nil {
			image.State = entities.StateFailed
			logger.Warnf("[%s] %s (unresolved: %v)", image.Name, image.CurrentVersion, resolveErr)
			continue
		}

		if entities.Decide(image.CurrentVersion, image.LatestVersion) == entities.NoOp {
			image.State = entities.StateUpToDate
			logger.Infof("[%s] %s (up to date)", image.Name, image.CurrentVersion)
			continue
		}
		logger.Infof("[%s] %s -> %s", image.Name, image.CurrentVersion, image.LatestVersion)
	}
	return images, nil
}
