package commands

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

const releaseNotesPlaceholder = "_Release notes could not be summarized, see the upstream release page._"

const summaryPrompt = `Summarize the release notes of the container image %s at version %s
as a short markdown bullet list of the changes an operator should know about.
Answer with the list only.

%s`

// reviewTitle is also the commit message of the bump.
func reviewTitle(image entities.TrackedImage) string {
	return fmt.Sprintf("Update %s to %s", image.Name, image.LatestVersion)
}

// composeReviewBody describes the bump. Release notes are summarized by the
// inference collaborator; any failure on the way yields a placeholder.
func composeReviewBody(
	ctx context.Context,
	toolchain *repositories.Toolchain,
	image entities.TrackedImage,
) string {
	var sb strings.Builder
	sb.WriteString("## Summary\n\n")
	sb.WriteString("This PR updates the `" + image.Name + "` image from **" + image.CurrentVersion +
		"** to **" + image.LatestVersion + "**.\n\n")
	if image.UpstreamURL != "" {
		sb.WriteString("Upstream: " + image.UpstreamURL + "\n\n")
	}
	sb.WriteString("### Release notes\n\n")
	sb.WriteString(summarizeReleaseNotes(ctx, toolchain, image))
	sb.WriteString("\n\n### Review Checklist\n\n")
	sb.WriteString("- [ ] Check the release notes for breaking changes\n")
	sb.WriteString("- [ ] Verify the services start with the new image\n")
	sb.WriteString("\n---\n")
	sb.WriteString("*This PR was automatically created by imagebump*\n")
	return sb.String()
}

func summarizeReleaseNotes(
	ctx context.Context,
	toolchain *repositories.Toolchain,
	image entities.TrackedImage,
) string {
	notes, err := toolchain.Oracle.ReleaseNotes(ctx, image.UpstreamURL, image.LatestVersion)
	if err != nil {
		logger.Warnf("[%s] Failed to fetch release notes: %v", image.Name, err)
		return releaseNotesPlaceholder
	}
	if strings.TrimSpace(notes) == "" {
		return releaseNotesPlaceholder
	}

	summary, err := toolchain.Inference.Complete(
		ctx, fmt.Sprintf(summaryPrompt, image.Name, image.LatestVersion, notes),
	)
	if err != nil || strings.TrimSpace(summary) == "" {
		logger.Warnf("[%s] Failed to summarize release notes: %v", image.Name, err)
		return releaseNotesPlaceholder
	}
	return strings.TrimSpace(summary)
}
