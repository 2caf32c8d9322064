package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/imagebump/internal/domain/commands"
	"github.com/rios0rios0/imagebump/internal/domain/entities"
)

// RunController handles the "run" subcommand (one pass).
type RunController struct {
	command commands.Update
}

// NewRunController creates a new RunController.
func NewRunController(command commands.Update) *RunController {
	return &RunController{command: command}
}

// GetBind returns the Cobra command metadata for the run controller.
func (it *RunController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run",
		Short: "Run one update pass over the manifest",
		Long: `Read the pinned image versions of the manifest, resolve the latest
upstream release of each image, and open one review request per outdated
image on a branch named update-<image>-<version>.

This is the main command intended to be used in a cronjob. Images are
processed one at a time on a single working copy, so two passes must
never run against the same repository path at once.`,
	}
}

// Execute runs one pass.
func (it *RunController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	only, _ := cmd.Flags().GetString("only")

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	logger.Infof("Starting imagebump pass (%s mode)...", settings.Mode)

	report, err := it.command.Execute(ctx, settings, commands.UpdateOptions{
		DryRun:  dryRun,
		Verbose: verbose,
		Only:    only,
	})
	if err != nil {
		logger.Errorf("Pass failed: %v", err)
		return
	}

	for _, pr := range report.Published() {
		logger.Infof("  Created PR #%d: %s (%s)", pr.ID, pr.Title, pr.URL)
	}
}

// AddFlags adds the run-specific flags to the given Cobra command.
func (it *RunController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("only", "", "Only process this image (e.g. prom/prometheus)")
}
