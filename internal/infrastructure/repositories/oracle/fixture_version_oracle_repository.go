package oracle

import (
	"context"
	"fmt"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// FixtureVersionOracleRepository answers from the fixture tables.
type FixtureVersionOracleRepository struct {
	fixtures *entities.Fixtures
}

var _ repositories.VersionOracleRepository = (*FixtureVersionOracleRepository)(nil)

func NewFixtureVersionOracleRepository(fixtures *entities.Fixtures) *FixtureVersionOracleRepository {
	return &FixtureVersionOracleRepository{fixtures: fixtures}
}

func (it *FixtureVersionOracleRepository) ResolveUpstreamRepository(_ context.Context, image string) (string, error) {
	upstream, ok := it.fixtures.Upstreams[image]
	if !ok || upstream == "" {
		return "", fmt.Errorf("%w: no fixture upstream for %q", entities.ErrResolution, image)
	}
	return upstream, nil
}

func (it *FixtureVersionOracleRepository) ResolveLatestVersion(
	ctx context.Context,
	image, _ string,
) (string, error) {
	if _, err := it.ResolveUpstreamRepository(ctx, image); err != nil {
		return "", err
	}
	latest, ok := it.fixtures.Latest[image]
	if !ok || latest == "" {
		return "", fmt.Errorf("%w: no fixture version for %q", entities.ErrResolution, image)
	}
	return latest, nil
}

func (it *FixtureVersionOracleRepository) ReleaseNotes(_ context.Context, upstreamURL, _ string) (string, error) {
	for image, upstream := range it.fixtures.Upstreams {
		if upstream == upstreamURL {
			return it.fixtures.ReleaseNotes[image], nil
		}
	}
	return "", nil
}
