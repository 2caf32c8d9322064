package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// Update is the interface for the update command (one pass).
type Update interface {
	Execute(ctx context.Context, settings *entities.Settings, opts UpdateOptions) (*entities.PassReport, error)
}

// UpdateOptions holds runtime options for a single pass.
type UpdateOptions struct {
	DryRun  bool
	Verbose bool
	Only    string // If set, only process this image (CLI override)
}

// UpdateCommand walks every tracked image of the manifest through the
// update state machine, one image at a time, on a single working copy.
type UpdateCommand struct {
	factory repositories.ToolchainFactory
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(factory repositories.ToolchainFactory) *UpdateCommand {
	return &UpdateCommand{factory: factory}
}

// pass is the state shared by the images of one pass.
type pass struct {
	toolchain *repositories.Toolchain
	settings  *entities.Settings
	opts      UpdateOptions
	document  string // manifest as read from main when the pass started
	target    entities.Repository
}

// Execute runs one pass. Per-image failures are recorded in the report; only
// a working-copy failure aborts the pass, returning the partial report.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts UpdateOptions,
) (*entities.PassReport, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	toolchain, err := it.factory.Build(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to build toolchain: %w", err)
	}

	images, document, err := discoverImages(ctx, toolchain, settings, opts.Only)
	if err != nil {
		return nil, err
	}

	p := &pass{
		toolchain: toolchain,
		settings:  settings,
		opts:      opts,
		document:  document,
		target:    settings.ReviewTarget(),
	}

	report := &entities.PassReport{}
	for _, image := range images {
		outcome, fatalErr := it.processImage(ctx, p, image)
		report.Add(outcome)
		if fatalErr != nil {
			logger.Errorf("[%s] Aborting the pass: %v", image.Name, fatalErr)
			it.finish(ctx, toolchain, report)
			return report, fatalErr
		}
	}

	it.finish(ctx, toolchain, report)
	return report, nil
}

// processImage takes one image to a terminal state. The returned error is
// only set when the working copy can no longer be trusted.
func (it *UpdateCommand) processImage(
	ctx context.Context,
	p *pass,
	image entities.TrackedImage,
) (entities.ImageOutcome, error) {
	outcome := entities.ImageOutcome{Image: image}
	fail := func(err error) (entities.ImageOutcome, error) {
		outcome.Image.State = entities.StateFailed
		outcome.Err = err
		if errors.Is(err, entities.ErrLocalRepository) {
			return outcome, err
		}
		logger.Warnf("[%s] Skipping: %v", image.Name, err)
		return outcome, nil
	}

	if err := resolveLatest(ctx, p.toolchain.Oracle, &outcome.Image); err != nil {
		return fail(err)
	}
	image = outcome.Image

	if entities.Decide(image.CurrentVersion, image.LatestVersion) == entities.NoOp {
		outcome.Image.State = entities.StateUpToDate
		logger.Infof("[%s] No update needed, %s is the latest version", image.Name, image.CurrentVersion)
		return outcome, nil
	}

	branch := entities.UpdateBranchName(image.Name, image.LatestVersion)
	outcome.Branch = branch
	logger.Infof("[%s] %s -> %s (branch %s)", image.Name, image.CurrentVersion, image.LatestVersion, branch)

	reviewCtx, cancel := withTimeout(ctx, p.settings.Review.Timeout)
	blocked, err := p.toolchain.Review.FindExisting(reviewCtx, p.target, branch)
	cancel()
	if err != nil {
		return fail(fmt.Errorf("failed to look up review requests: %w", err))
	}
	if blocked {
		outcome.Image.State = entities.StateUpdateBlocked
		logger.Infof("[%s] A review request from %s already exists, nothing to do", image.Name, branch)
		return outcome, nil
	}

	local, err := p.toolchain.WorkingCopy.BranchExistsLocally(branch)
	if err != nil {
		return fail(err)
	}
	remoteCtx, cancel := withTimeout(ctx, p.settings.Repository.Timeout)
	remote, err := p.toolchain.WorkingCopy.BranchExistsRemotely(remoteCtx, branch)
	cancel()
	if err != nil {
		return fail(err)
	}
	branchState := entities.NewBranchState(local, remote)
	logger.Debugf("[%s] Branch %s is %s", image.Name, branch, branchState)

	if p.opts.DryRun {
		logger.Infof("[%s] [DRY RUN] Would update to %s on %s (branch %s)",
			image.Name, image.LatestVersion, branch, branchState)
		return outcome, nil
	}

	if local {
		logger.Infof("[%s] Deleting branch %s left by an earlier attempt", image.Name, branch)
		if err = p.toolchain.WorkingCopy.DeleteLocalIfExists(branch); err != nil {
			return fail(err)
		}
	}

	if remote {
		outcome.BranchReused = true
		outcome.Image.State = entities.StatePushed
		logger.Infof("[%s] Branch %s is already pushed, reusing it", image.Name, branch)
	} else {
		updated, editErr := it.editManifest(ctx, p, image)
		if editErr != nil {
			return fail(editErr)
		}
		if err = it.prepareBranch(ctx, p, &outcome.Image, branch, updated); err != nil {
			return fail(err)
		}
	}

	request, err := it.publish(ctx, p, outcome.Image, branch)
	if err != nil {
		return fail(err)
	}
	outcome.Request = request
	outcome.Image.State = entities.StateRequestPublished
	return outcome, nil
}

// editManifest computes the bumped manifest in memory, before any branch
// exists, so an image whose line cannot be found leaves no trace.
func (it *UpdateCommand) editManifest(
	ctx context.Context,
	p *pass,
	image entities.TrackedImage,
) (string, error) {
	edit, err := p.toolchain.Analyzer.ReplacementLine(ctx, p.document, image)
	if err == nil {
		err = edit.Validate()
	}
	if err != nil {
		return "", fmt.Errorf("failed to compute the replacement line: %w", err)
	}

	updated, changed := entities.ApplyVersionBump(p.document, image.Name, image.CurrentVersion, edit.Render())
	if !changed {
		return "", fmt.Errorf("%w: no line declares %s at %s", entities.ErrManifestMatch, image.Name, image.CurrentVersion)
	}
	return updated, nil
}

// prepareBranch creates the update branch from main, commits the bump and
// pushes it. The working copy is back on main when it returns.
func (it *UpdateCommand) prepareBranch(
	ctx context.Context,
	p *pass,
	image *entities.TrackedImage,
	branch, manifest string,
) (err error) {
	wc := p.toolchain.WorkingCopy
	if err = wc.CreateAndCheckout(branch); err != nil {
		return err
	}
	image.State = entities.StateBranchPrepared
	defer func() {
		if checkoutErr := wc.CheckoutMain(); checkoutErr != nil {
			err = errors.Join(err, checkoutErr)
		}
	}()

	if err = wc.WriteFile(p.settings.Repository.Manifest, manifest); err != nil {
		return err
	}
	image.State = entities.StateManifestEdited

	if err = it.recordChangelog(p, *image); err != nil {
		return err
	}

	if err = wc.CommitAll(reviewTitle(*image)); err != nil {
		return err
	}
	image.State = entities.StateCommitted

	pushCtx, cancel := withTimeout(ctx, p.settings.Repository.Timeout)
	defer cancel()
	if err = wc.Push(pushCtx, branch); err != nil {
		return err
	}
	image.State = entities.StatePushed
	logger.Infof("[%s] Pushed branch %s", image.Name, branch)
	return nil
}

// recordChangelog adds the bump to the changelog when one is configured. A
// missing changelog is not an error.
func (it *UpdateCommand) recordChangelog(p *pass, image entities.TrackedImage) error {
	path := p.settings.Repository.Changelog
	if path == "" {
		return nil
	}

	content, err := p.toolchain.WorkingCopy.ReadFile(path)
	if err != nil {
		logger.Warnf("[%s] Not updating %s: %v", image.Name, path, err)
		return nil
	}

	entry := entities.ChangelogEntry(image.Name, image.CurrentVersion, image.LatestVersion)
	updated := entities.InsertChangelogEntry(content, entry)
	if updated == content {
		logger.Debugf("[%s] %s has no Unreleased section or already lists the bump", image.Name, path)
		return nil
	}
	return p.toolchain.WorkingCopy.WriteFile(path, updated)
}

// publish opens the review request and asks for a review when a reviewer
// is configured. Reviewer failures are only logged.
func (it *UpdateCommand) publish(
	ctx context.Context,
	p *pass,
	image entities.TrackedImage,
	branch string,
) (*entities.PullRequest, error) {
	input := entities.PullRequestInput{
		SourceBranch: branch,
		TargetBranch: p.settings.Repository.MainBranch,
		Title:        reviewTitle(image),
		Description:  composeReviewBody(ctx, p.toolchain, image),
	}

	createCtx, cancel := withTimeout(ctx, p.settings.Review.Timeout)
	request, err := p.toolchain.Review.Create(createCtx, p.target, input)
	cancel()
	if err != nil {
		return nil, err
	}
	logger.Infof("[%s] Created PR #%d: %s", image.Name, request.ID, request.URL)

	if reviewer := p.settings.Review.Reviewer; reviewer != "" {
		assignCtx, cancelAssign := withTimeout(ctx, p.settings.Review.Timeout)
		if assignErr := p.toolchain.Review.AssignReviewer(assignCtx, p.target, request, reviewer); assignErr != nil {
			logger.Warnf("[%s] %v", image.Name, assignErr)
		}
		cancelAssign()
	}
	return request, nil
}

func (it *UpdateCommand) finish(
	ctx context.Context,
	toolchain *repositories.Toolchain,
	report *entities.PassReport,
) {
	if err := toolchain.Metrics.Record(ctx, report); err != nil {
		logger.Warnf("Failed to export pass metrics: %v", err)
	}

	counts := report.CountByState()
	logger.Infof(
		"Pass complete: %d images processed, %d up to date, %d blocked, %d requests published, %d failed",
		len(report.Outcomes),
		counts[entities.StateUpToDate],
		counts[entities.StateUpdateBlocked],
		counts[entities.StateRequestPublished],
		counts[entities.StateFailed],
	)
}

// discoverImages brings the working copy up to date and lists the images
// pinned in its manifest, in declaration order.
func discoverImages(
	ctx context.Context,
	toolchain *repositories.Toolchain,
	settings *entities.Settings,
	only string,
) ([]entities.TrackedImage, string, error) {
	cloneCtx, cancel := withTimeout(ctx, settings.Repository.Timeout)
	err := toolchain.WorkingCopy.EnsureCloned(cloneCtx)
	cancel()
	if err != nil {
		return nil, "", fmt.Errorf("failed to prepare working copy: %w", err)
	}

	document, err := toolchain.WorkingCopy.ReadFile(settings.Repository.Manifest)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read manifest: %w", err)
	}

	versions, err := toolchain.Analyzer.CurrentVersions(ctx, document)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read pinned versions: %w", err)
	}

	images := entities.TrackedImagesFromVersions(document, versions)
	if only != "" {
		filtered := images[:0]
		for _, image := range images {
			if image.Name == only {
				filtered = append(filtered, image)
			}
		}
		images = filtered
	}

	logger.Infof("Found %d tracked images in %s", len(images), settings.Repository.Manifest)
	return images, document, nil
}

// resolveLatest fills the upstream and latest version of image. A sentinel
// answer is stored as the current version.
func resolveLatest(
	ctx context.Context,
	oracle repositories.VersionOracleRepository,
	image *entities.TrackedImage,
) error {
	upstream, err := oracle.ResolveUpstreamRepository(ctx, image.Name)
	if err != nil {
		return err
	}
	image.UpstreamURL = upstream

	latest, err := oracle.ResolveLatestVersion(ctx, image.Name, image.CurrentVersion)
	if err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(latest), entities.SameVersionSentinel) {
		latest = image.CurrentVersion
	}
	image.LatestVersion = entities.ConformVersion(image.CurrentVersion, latest)
	image.State = entities.StateVersionResolved
	return nil
}

// withTimeout bounds a single network call. A zero timeout leaves the call
// bound only by ctx.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
