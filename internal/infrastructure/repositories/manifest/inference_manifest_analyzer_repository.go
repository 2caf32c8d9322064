package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// InferenceManifestAnalyzerRepository delegates reading and rewriting the
// manifest to the inference collaborator and validates every answer.
type InferenceManifestAnalyzerRepository struct {
	inference repositories.InferenceRepository
}

var _ repositories.ManifestAnalyzerRepository = (*InferenceManifestAnalyzerRepository)(nil)

func NewInferenceManifestAnalyzerRepository(
	inference repositories.InferenceRepository,
) *InferenceManifestAnalyzerRepository {
	return &InferenceManifestAnalyzerRepository{inference: inference}
}

// CurrentVersions asks for an image→version JSON object. Images the manifest
// does not declare at the reported version are dropped with a warning, so a
// hallucinated entry can never reach the editor.
func (it *InferenceManifestAnalyzerRepository) CurrentVersions(
	ctx context.Context,
	document string,
) (map[string]string, error) {
	answer, err := it.inference.Complete(ctx, currentVersionsPrompt(document))
	if err != nil {
		return nil, fmt.Errorf("failed to extract image versions: %w", err)
	}

	var raw map[string]string
	if err = json.Unmarshal([]byte(stripCodeFence(answer)), &raw); err != nil {
		return nil, fmt.Errorf("%w: image versions are not a JSON object: %w", entities.ErrMalformedResponse, err)
	}

	versions := make(map[string]string, len(raw))
	for image, version := range raw {
		image, version = strings.TrimSpace(image), strings.TrimSpace(version)
		if idx, _ := entities.FindDeclarationLine(document, image, version); image == "" || version == "" || idx < 0 {
			logger.Warnf("[manifest] Ignoring %q at %q: not declared in the manifest", image, version)
			continue
		}
		versions[image] = version
	}
	return versions, nil
}

// ReplacementLine asks for the rewritten declaration line. The answer must
// have the {indentation, updatedLine} shape and still declare the image at
// the new version.
func (it *InferenceManifestAnalyzerRepository) ReplacementLine(
	ctx context.Context,
	document string,
	image entities.TrackedImage,
) (entities.LineEdit, error) {
	prompt := replacementLinePrompt(document, image.Name, image.CurrentVersion, image.LatestVersion)
	answer, err := it.inference.Complete(ctx, prompt)
	if err != nil {
		return entities.LineEdit{}, fmt.Errorf("failed to propose line for %q: %w", image.Name, err)
	}

	var edit entities.LineEdit
	if err = json.Unmarshal([]byte(stripCodeFence(answer)), &edit); err != nil {
		return entities.LineEdit{}, fmt.Errorf("%w: line edit is not a JSON object: %w", entities.ErrMalformedResponse, err)
	}
	if err = edit.Validate(); err != nil {
		return entities.LineEdit{}, err
	}
	if !strings.Contains(edit.UpdatedLine, entities.DeclarationToken(image.Name)) ||
		!strings.Contains(edit.UpdatedLine, image.LatestVersion) {
		return entities.LineEdit{}, fmt.Errorf(
			"%w: %q does not declare %s at %s",
			entities.ErrMalformedResponse, edit.UpdatedLine, image.Name, image.LatestVersion,
		)
	}
	return edit, nil
}

// stripCodeFence removes a surrounding ``` block some models add to JSON.
func stripCodeFence(answer string) string {
	trimmed := strings.TrimSpace(answer)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.Index(trimmed, "\n"); nl >= 0 {
		trimmed = trimmed[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(trimmed), "```"))
}
