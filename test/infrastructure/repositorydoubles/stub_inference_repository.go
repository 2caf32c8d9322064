//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sort"
	"strings"

	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// StubInferenceRepository answers prompts from a table keyed by a substring
// of the prompt. Keys are tried in lexical order; Default answers the rest.
type StubInferenceRepository struct {
	Answers map[string]string
	Default string
	Err     error

	// spy: prompts received
	Prompts []string
}

var _ repositories.InferenceRepository = (*StubInferenceRepository)(nil)

func (s *StubInferenceRepository) Complete(_ context.Context, prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if s.Err != nil {
		return "", s.Err
	}

	keys := make([]string, 0, len(s.Answers))
	for key := range s.Answers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.Contains(prompt, key) {
			return s.Answers[key], nil
		}
	}
	return s.Default, nil
}
