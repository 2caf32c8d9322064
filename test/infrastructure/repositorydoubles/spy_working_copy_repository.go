//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"maps"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

const mainBranch = "main"

// SpyWorkingCopyRepository keeps a working copy in memory. Files is the tree
// of main; every branch gets its own copy of it when created.
type SpyWorkingCopyRepository struct {
	Files          map[string]string
	LocalBranches  map[string]bool
	RemoteBranches map[string]bool

	// --- failures ---
	EnsureClonedErr error
	RemoteErr       error
	CommitErr       error
	PushErrs        map[string]error // branch -> error

	// --- spy ---
	Current       string
	Created       []string
	Deleted       []string
	Commits       []Commit
	Pushed        []string
	MainCheckouts int
	Bounded       []string // network calls that carried a deadline

	trees map[string]map[string]string
}

// Commit records a single invocation of CommitAll.
type Commit struct {
	Branch  string
	Message string
	Files   map[string]string
}

var _ repositories.WorkingCopyRepository = (*SpyWorkingCopyRepository)(nil)

// NewSpyWorkingCopyRepository creates a spy whose main branch holds files.
func NewSpyWorkingCopyRepository(files map[string]string) *SpyWorkingCopyRepository {
	return &SpyWorkingCopyRepository{
		Files:          files,
		LocalBranches:  make(map[string]bool),
		RemoteBranches: make(map[string]bool),
		PushErrs:       make(map[string]error),
		Current:        mainBranch,
		trees:          make(map[string]map[string]string),
	}
}

func (s *SpyWorkingCopyRepository) EnsureCloned(ctx context.Context) error {
	s.Bounded = recordDeadline(ctx, s.Bounded, "clone")
	if s.EnsureClonedErr != nil {
		return s.EnsureClonedErr
	}
	s.Current = mainBranch
	return nil
}

func (s *SpyWorkingCopyRepository) ReadFile(path string) (string, error) {
	content, ok := s.tree()[path]
	if !ok {
		return "", fmt.Errorf("%w: %s does not exist", entities.ErrLocalRepository, path)
	}
	return content, nil
}

func (s *SpyWorkingCopyRepository) WriteFile(path, content string) error {
	s.tree()[path] = content
	return nil
}

func (s *SpyWorkingCopyRepository) BranchExistsLocally(name string) (bool, error) {
	return s.LocalBranches[name], nil
}

func (s *SpyWorkingCopyRepository) BranchExistsRemotely(ctx context.Context, name string) (bool, error) {
	s.Bounded = recordDeadline(ctx, s.Bounded, "list")
	if s.RemoteErr != nil {
		return false, s.RemoteErr
	}
	return s.RemoteBranches[name], nil
}

func (s *SpyWorkingCopyRepository) CreateAndCheckout(name string) error {
	if s.LocalBranches[name] {
		return fmt.Errorf("%w: branch %s already exists", entities.ErrLocalRepository, name)
	}
	s.LocalBranches[name] = true
	s.trees[name] = maps.Clone(s.Files)
	s.Created = append(s.Created, name)
	s.Current = name
	return nil
}

func (s *SpyWorkingCopyRepository) DeleteLocalIfExists(name string) error {
	if !s.LocalBranches[name] {
		return nil
	}
	delete(s.LocalBranches, name)
	delete(s.trees, name)
	s.Deleted = append(s.Deleted, name)
	return nil
}

func (s *SpyWorkingCopyRepository) CommitAll(message string) error {
	if s.CommitErr != nil {
		return s.CommitErr
	}
	s.Commits = append(s.Commits, Commit{Branch: s.Current, Message: message, Files: maps.Clone(s.tree())})
	return nil
}

func (s *SpyWorkingCopyRepository) Push(ctx context.Context, name string) error {
	s.Bounded = recordDeadline(ctx, s.Bounded, "push")
	if err := s.PushErrs[name]; err != nil {
		return err
	}
	s.RemoteBranches[name] = true
	s.Pushed = append(s.Pushed, name)
	return nil
}

func (s *SpyWorkingCopyRepository) CheckoutMain() error {
	s.Current = mainBranch
	s.MainCheckouts++
	return nil
}

// Tree returns the files of a branch as last written.
func (s *SpyWorkingCopyRepository) Tree(branch string) map[string]string {
	if branch == mainBranch {
		return s.Files
	}
	return s.trees[branch]
}

func (s *SpyWorkingCopyRepository) tree() map[string]string {
	if s.Current == mainBranch {
		return s.Files
	}
	return s.trees[s.Current]
}

func recordDeadline(ctx context.Context, calls []string, call string) []string {
	if _, ok := ctx.Deadline(); ok {
		return append(calls, call)
	}
	return calls
}
