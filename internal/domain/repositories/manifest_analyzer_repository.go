package repositories

import (
	"context"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
)

// ManifestAnalyzerRepository reads pinned versions out of a manifest and
// proposes the replacement line for a bump. It never edits the document
// itself; entities.ApplyVersionBump does.
type ManifestAnalyzerRepository interface {
	// CurrentVersions maps every image declared in document to its pinned version.
	CurrentVersions(ctx context.Context, document string) (map[string]string, error)

	// ReplacementLine proposes the line declaring image at image.LatestVersion.
	ReplacementLine(ctx context.Context, document string, image entities.TrackedImage) (entities.LineEdit, error)
}
