package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/imagebump/internal/domain/commands"
	"github.com/rios0rios0/imagebump/internal/domain/entities"
)

// VersionsController handles the "versions" subcommand.
type VersionsController struct {
	command commands.Versions
}

// NewVersionsController creates a new VersionsController.
func NewVersionsController(command commands.Versions) *VersionsController {
	return &VersionsController{command: command}
}

// GetBind returns the Cobra command metadata for the versions controller.
func (it *VersionsController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "versions",
		Short: "List pinned and latest image versions",
		Long: `Resolve the latest upstream release of every image pinned in the
manifest and print it next to the pinned version. No branch, commit or
review request is created.`,
	}
}

// Execute lists the tracked images.
func (it *VersionsController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	verbose, _ := cmd.Flags().GetBool("verbose")
	only, _ := cmd.Flags().GetString("only")

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	images, err := it.command.Execute(ctx, settings, commands.VersionsOptions{
		Verbose: verbose,
		Only:    only,
	})
	if err != nil {
		logger.Errorf("Listing failed: %v", err)
		return
	}

	outdated := 0
	for _, image := range images {
		if image.State == entities.StateVersionResolved {
			outdated++
		}
	}
	logger.Infof("%d of %d images can be updated", outdated, len(images))
}

// AddFlags adds the versions-specific flags to the given Cobra command.
func (it *VersionsController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("only", "", "Only list this image")
}
