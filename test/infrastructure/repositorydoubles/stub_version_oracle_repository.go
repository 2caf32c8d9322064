//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// StubVersionOracleRepository answers from tables keyed by image name.
type StubVersionOracleRepository struct {
	Upstreams  map[string]string // image -> upstream URL
	Latest     map[string]string // image -> latest version
	LatestErrs map[string]error  // image -> error
	Notes      map[string]string // version -> notes

	// spy: images whose latest version was asked
	LatestCalls []string
}

var _ repositories.VersionOracleRepository = (*StubVersionOracleRepository)(nil)

func (s *StubVersionOracleRepository) ResolveUpstreamRepository(_ context.Context, image string) (string, error) {
	upstream, ok := s.Upstreams[image]
	if !ok {
		return "https://github.com/" + image, nil
	}
	return upstream, nil
}

func (s *StubVersionOracleRepository) ResolveLatestVersion(
	_ context.Context,
	image, _ string,
) (string, error) {
	s.LatestCalls = append(s.LatestCalls, image)
	if err := s.LatestErrs[image]; err != nil {
		return "", err
	}
	latest, ok := s.Latest[image]
	if !ok {
		return "", fmt.Errorf("%w: no latest version for %s", entities.ErrResolution, image)
	}
	return latest, nil
}

func (s *StubVersionOracleRepository) ReleaseNotes(_ context.Context, _, version string) (string, error) {
	return s.Notes[version], nil
}
