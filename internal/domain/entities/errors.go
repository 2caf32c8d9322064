package entities

import "errors"

// Failure classes of a pass. Per-image failures (every class except
// ErrLocalRepository) are logged and the pass moves on to the next image.
var (
	// ErrResolution means the oracle could not determine the upstream
	// repository or the latest version of an image.
	ErrResolution = errors.New("resolution failed")

	// ErrUpstreamUnreachable means the upstream "latest release" endpoint
	// did not answer with a redirect-class response.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")

	// ErrManifestMatch means no manifest line declares the image at its
	// current version, so the edit would be a silent no-op.
	ErrManifestMatch = errors.New("no manifest line matched")

	// ErrLocalRepository means a working-copy operation failed. It aborts the
	// whole pass because the state of the checkout can no longer be trusted.
	ErrLocalRepository = errors.New("local repository operation failed")

	// ErrPush means pushing the update branch failed.
	ErrPush = errors.New("push failed")

	// ErrPublish means the hosting service rejected the review request.
	ErrPublish = errors.New("review request could not be published")

	// ErrReviewerAssign means the reviewer could not be requested.
	ErrReviewerAssign = errors.New("reviewer assignment failed")

	// ErrMalformedResponse means the inference collaborator answered with a
	// shape the call site does not accept.
	ErrMalformedResponse = errors.New("malformed inference response")
)
