package repositories

import "context"

// WorkingCopyRepository owns the single local checkout a pass works on. It
// is bound to one remote, one path and one main branch at construction.
// Concurrent passes against the same path are not supported.
type WorkingCopyRepository interface {
	// EnsureCloned clones the remote when the path is empty, otherwise checks
	// out main and fast-forwards it.
	EnsureCloned(ctx context.Context) error

	// ReadFile returns a file of the working tree, relative to its root.
	ReadFile(path string) (string, error)
	// WriteFile replaces a file of the working tree as a whole.
	WriteFile(path, content string) error

	BranchExistsLocally(name string) (bool, error)
	// BranchExistsRemotely asks the remote for its advertised branches.
	BranchExistsRemotely(ctx context.Context, name string) (bool, error)

	// CreateAndCheckout creates name from the tip of main and checks it out.
	CreateAndCheckout(name string) error
	// DeleteLocalIfExists removes a local branch left by an aborted attempt.
	DeleteLocalIfExists(name string) error
	CommitAll(message string) error
	Push(ctx context.Context, name string) error
	CheckoutMain() error
}
