package repositories

import (
	"context"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
)

// ReviewRequestRepository publishes pull/merge requests on a code-review host.
type ReviewRequestRepository interface {
	// Name returns the provider identifier (e.g. "github", "gitlab").
	Name() string

	// FindExisting reports whether a request from branch exists in a state
	// that blocks a new one (open or merged). Closed requests are ignored.
	FindExisting(ctx context.Context, target entities.Repository, branch string) (bool, error)

	// Create opens a request. Failures wrap entities.ErrPublish.
	Create(
		ctx context.Context,
		target entities.Repository,
		input entities.PullRequestInput,
	) (*entities.PullRequest, error)

	// AssignReviewer requests a review. Failures wrap entities.ErrReviewerAssign.
	AssignReviewer(
		ctx context.Context,
		target entities.Repository,
		request *entities.PullRequest,
		reviewer string,
	) error
}
