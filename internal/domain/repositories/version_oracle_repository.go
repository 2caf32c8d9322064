package repositories

import "context"

// VersionOracleRepository resolves where an image is released upstream and
// which version was released last.
type VersionOracleRepository interface {
	// ResolveUpstreamRepository returns the source repository URL of an image.
	// Failures wrap entities.ErrResolution.
	ResolveUpstreamRepository(ctx context.Context, image string) (string, error)

	// ResolveLatestVersion returns the latest released version formatted like
	// currentVersion, or entities.SameVersionSentinel when nothing changed.
	// Failures wrap entities.ErrResolution or entities.ErrUpstreamUnreachable.
	ResolveLatestVersion(ctx context.Context, image, currentVersion string) (string, error)

	// ReleaseNotes returns the release notes published for version, or an
	// empty string when the upstream host has none.
	ReleaseNotes(ctx context.Context, upstreamURL, version string) (string, error)
}
