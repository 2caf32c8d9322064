package inference

import (
	"context"
	"strings"

	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// FixtureInferenceRepository answers without a network call: it returns the
// last paragraph of the prompt, which is where every prompt of the pipeline
// puts the material to work on. It keeps fixture passes repeatable.
type FixtureInferenceRepository struct {
	Prompts []string
}

var _ repositories.InferenceRepository = (*FixtureInferenceRepository)(nil)

func NewFixtureInferenceRepository() *FixtureInferenceRepository {
	return &FixtureInferenceRepository{}
}

func (it *FixtureInferenceRepository) Complete(_ context.Context, prompt string) (string, error) {
	it.Prompts = append(it.Prompts, prompt)

	trimmed := strings.TrimSpace(prompt)
	if idx := strings.LastIndex(trimmed, "\n\n"); idx >= 0 {
		return strings.TrimSpace(trimmed[idx+2:]), nil
	}
	return trimmed, nil
}
