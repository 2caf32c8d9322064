package repositories

import "context"

// InferenceRepository is the natural-language collaborator: a free-text
// prompt goes in and free-text comes out. Callers validate the shape of the
// answer they expect.
type InferenceRepository interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
