package manifest

import (
	"context"
	"fmt"
	"maps"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// FixtureManifestAnalyzerRepository answers from the fixture tables.
type FixtureManifestAnalyzerRepository struct {
	fixtures *entities.Fixtures
}

var _ repositories.ManifestAnalyzerRepository = (*FixtureManifestAnalyzerRepository)(nil)

func NewFixtureManifestAnalyzerRepository(fixtures *entities.Fixtures) *FixtureManifestAnalyzerRepository {
	return &FixtureManifestAnalyzerRepository{fixtures: fixtures}
}

func (it *FixtureManifestAnalyzerRepository) CurrentVersions(_ context.Context, _ string) (map[string]string, error) {
	return maps.Clone(it.fixtures.Images), nil
}

func (it *FixtureManifestAnalyzerRepository) ReplacementLine(
	_ context.Context,
	_ string,
	image entities.TrackedImage,
) (entities.LineEdit, error) {
	edit, ok := it.fixtures.Lines[image.Name]
	if !ok {
		return entities.LineEdit{}, fmt.Errorf("%w: no fixture line for %q", entities.ErrMalformedResponse, image.Name)
	}
	if err := edit.Validate(); err != nil {
		return entities.LineEdit{}, err
	}
	return edit, nil
}
