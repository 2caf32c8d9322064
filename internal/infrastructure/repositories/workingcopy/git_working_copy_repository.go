package workingcopy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

const (
	remoteName     = "origin"
	tempFilePrefix = ".imagebump-"
	filePerm       = 0o644
)

var errNotOpened = errors.New("working copy is not opened, call EnsureCloned first")

// GitWorkingCopyRepository drives the local checkout through go-git.
type GitWorkingCopyRepository struct {
	url        string
	path       string
	mainBranch plumbing.ReferenceName
	auth       transport.AuthMethod
	authorName string
	authorMail string

	repo *git.Repository
}

var _ repositories.WorkingCopyRepository = (*GitWorkingCopyRepository)(nil)

// NewGitWorkingCopyRepository binds a working copy to the configured remote,
// path and main branch. The provider selects the basic-auth user name the
// host expects next to a token.
func NewGitWorkingCopyRepository(settings entities.RepositorySettings, provider string) *GitWorkingCopyRepository {
	return &GitWorkingCopyRepository{
		url:        settings.URL,
		path:       settings.Path,
		mainBranch: plumbing.NewBranchReferenceName(settings.MainBranch),
		auth:       basicAuth(settings.Token, provider),
		authorName: settings.AuthorName,
		authorMail: settings.AuthorEmail,
	}
}

func basicAuth(token, provider string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	username := "x-access-token"
	if provider == "gitlab" {
		username = "oauth2"
	}
	return &githttp.BasicAuth{Username: username, Password: token}
}

func (it *GitWorkingCopyRepository) EnsureCloned(ctx context.Context) error {
	repo, err := git.PlainOpen(it.path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		logger.Infof("[git] Cloning %s into %s", it.url, it.path)
		repo, err = git.PlainCloneContext(ctx, it.path, false, &git.CloneOptions{
			URL:           it.url,
			Auth:          it.auth,
			RemoteName:    remoteName,
			ReferenceName: it.mainBranch,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to clone %s: %w", entities.ErrLocalRepository, it.url, err)
		}
		it.repo = repo
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %w", entities.ErrLocalRepository, it.path, err)
	}

	it.repo = repo
	if err = it.CheckoutMain(); err != nil {
		return err
	}

	wt, err := it.worktree()
	if err != nil {
		return err
	}
	logger.Infof("[git] Pulling %s", it.mainBranch.Short())
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName:    remoteName,
		ReferenceName: it.mainBranch,
		SingleBranch:  true,
		Auth:          it.auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("%w: failed to pull %s: %w", entities.ErrLocalRepository, it.mainBranch.Short(), err)
	}
	return nil
}

func (it *GitWorkingCopyRepository) ReadFile(path string) (string, error) {
	wt, err := it.worktree()
	if err != nil {
		return "", err
	}
	data, err := util.ReadFile(wt.Filesystem, path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %w", entities.ErrLocalRepository, path, err)
	}
	return string(data), nil
}

// WriteFile writes into a temporary sibling and renames it over path, so a
// failed write never leaves a truncated file behind.
func (it *GitWorkingCopyRepository) WriteFile(path, content string) error {
	wt, err := it.worktree()
	if err != nil {
		return err
	}

	fs := wt.Filesystem
	tmp, err := util.TempFile(fs, filepath.Dir(path), tempFilePrefix)
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file for %s: %w", entities.ErrLocalRepository, path, err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write([]byte(content)); err != nil {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
		return fmt.Errorf("%w: failed to write %s: %w", entities.ErrLocalRepository, path, err)
	}
	if err = tmp.Close(); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("%w: failed to write %s: %w", entities.ErrLocalRepository, path, err)
	}
	if err = keepMode(fs, path, tmpName); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("%w: failed to set the mode of %s: %w", entities.ErrLocalRepository, path, err)
	}
	if err = fs.Rename(tmpName, path); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("%w: failed to replace %s: %w", entities.ErrLocalRepository, path, err)
	}
	return nil
}

// keepMode gives tmp the permissions of path, or filePerm for a new file.
// Working copies are plain checkouts, so a filesystem without billy.Change
// is changed through its root on disk.
func keepMode(fs billy.Filesystem, path, tmp string) error {
	mode := os.FileMode(filePerm)
	if info, err := fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if changer, ok := fs.(billy.Change); ok {
		return changer.Chmod(tmp, mode)
	}
	return os.Chmod(filepath.Join(fs.Root(), tmp), mode)
}

func (it *GitWorkingCopyRepository) BranchExistsLocally(name string) (bool, error) {
	if it.repo == nil {
		return false, fmt.Errorf("%w: %w", entities.ErrLocalRepository, errNotOpened)
	}
	_, err := it.repo.Reference(plumbing.NewBranchReferenceName(name), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: failed to look up branch %s: %w", entities.ErrLocalRepository, name, err)
	}
	return true, nil
}

// BranchExistsRemotely lists the refs the remote advertises, the equivalent
// of "git ls-remote --heads origin <name>".
func (it *GitWorkingCopyRepository) BranchExistsRemotely(ctx context.Context, name string) (bool, error) {
	if it.repo == nil {
		return false, fmt.Errorf("%w: %w", entities.ErrLocalRepository, errNotOpened)
	}
	remote, err := it.repo.Remote(remoteName)
	if err != nil {
		return false, fmt.Errorf("%w: failed to get remote: %w", entities.ErrLocalRepository, err)
	}

	refs, err := remote.ListContext(ctx, &git.ListOptions{Auth: it.auth})
	if err != nil {
		return false, fmt.Errorf("%w: failed to list remote branches: %w", entities.ErrLocalRepository, err)
	}

	want := plumbing.NewBranchReferenceName(name)
	for _, ref := range refs {
		if ref.Name() == want {
			return true, nil
		}
	}
	return false, nil
}

// CreateAndCheckout always branches from main, never from whatever happens
// to be checked out.
func (it *GitWorkingCopyRepository) CreateAndCheckout(name string) error {
	if err := it.CheckoutMain(); err != nil {
		return err
	}

	head, err := it.repo.Head()
	if err != nil {
		return fmt.Errorf("%w: failed to resolve HEAD: %w", entities.ErrLocalRepository, err)
	}

	wt, err := it.worktree()
	if err != nil {
		return err
	}
	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Hash:   head.Hash(),
		Create: true,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create branch %s: %w", entities.ErrLocalRepository, name, err)
	}
	logger.Debugf("[git] Created branch %s at %s", name, head.Hash())
	return nil
}

func (it *GitWorkingCopyRepository) DeleteLocalIfExists(name string) error {
	exists, err := it.BranchExistsLocally(name)
	if err != nil || !exists {
		return err
	}

	ref := plumbing.NewBranchReferenceName(name)
	head, err := it.repo.Head()
	if err == nil && head.Name() == ref {
		if err = it.CheckoutMain(); err != nil {
			return err
		}
	}

	if err = it.repo.Storer.RemoveReference(ref); err != nil {
		return fmt.Errorf("%w: failed to delete branch %s: %w", entities.ErrLocalRepository, name, err)
	}
	if err = it.repo.DeleteBranch(name); err != nil && !errors.Is(err, git.ErrBranchNotFound) {
		return fmt.Errorf("%w: failed to delete branch config %s: %w", entities.ErrLocalRepository, name, err)
	}
	logger.Debugf("[git] Deleted local branch %s", name)
	return nil
}

func (it *GitWorkingCopyRepository) CommitAll(message string) error {
	wt, err := it.worktree()
	if err != nil {
		return err
	}
	if err = wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("%w: failed to stage changes: %w", entities.ErrLocalRepository, err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: it.authorName, Email: it.authorMail, When: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("%w: failed to commit: %w", entities.ErrLocalRepository, err)
	}
	logger.Debugf("[git] Committed %s: %s", hash, message)
	return nil
}

func (it *GitWorkingCopyRepository) Push(ctx context.Context, name string) error {
	if it.repo == nil {
		return fmt.Errorf("%w: %w", entities.ErrPush, errNotOpened)
	}
	ref := plumbing.NewBranchReferenceName(name)
	err := it.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec(ref.String() + ":" + ref.String())},
		Auth:       it.auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("%w: %s: %w", entities.ErrPush, name, err)
	}
	return nil
}

func (it *GitWorkingCopyRepository) CheckoutMain() error {
	wt, err := it.worktree()
	if err != nil {
		return err
	}
	if err = wt.Checkout(&git.CheckoutOptions{Branch: it.mainBranch}); err != nil {
		return fmt.Errorf("%w: failed to check out %s: %w", entities.ErrLocalRepository, it.mainBranch.Short(), err)
	}
	return nil
}

func (it *GitWorkingCopyRepository) worktree() (*git.Worktree, error) {
	if it.repo == nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrLocalRepository, errNotOpened)
	}
	wt, err := it.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open worktree: %w", entities.ErrLocalRepository, err)
	}
	return wt, nil
}
