//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// StubManifestAnalyzerRepository returns fixed versions. Without an entry in
// Lines, the replacement swaps the version on the declaring line.
type StubManifestAnalyzerRepository struct {
	Versions    map[string]string
	VersionsErr error
	Lines       map[string]entities.LineEdit
	LineErr     error
}

var _ repositories.ManifestAnalyzerRepository = (*StubManifestAnalyzerRepository)(nil)

func (s *StubManifestAnalyzerRepository) CurrentVersions(_ context.Context, _ string) (map[string]string, error) {
	if s.VersionsErr != nil {
		return nil, s.VersionsErr
	}
	return maps.Clone(s.Versions), nil
}

func (s *StubManifestAnalyzerRepository) ReplacementLine(
	_ context.Context,
	document string,
	image entities.TrackedImage,
) (entities.LineEdit, error) {
	if s.LineErr != nil {
		return entities.LineEdit{}, s.LineErr
	}
	if edit, ok := s.Lines[image.Name]; ok {
		return edit, nil
	}

	idx, line := entities.FindDeclarationLine(document, image.Name, image.CurrentVersion)
	if idx < 0 {
		return entities.LineEdit{}, fmt.Errorf("%w: %s", entities.ErrManifestMatch, image.Name)
	}
	return entities.NewLineEdit(strings.Replace(line, image.CurrentVersion, image.LatestVersion, 1)), nil
}
