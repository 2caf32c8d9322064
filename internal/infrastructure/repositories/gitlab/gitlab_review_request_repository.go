package gitlab

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

const (
	providerName = "gitlab"
	perPage      = 100
	stateAll     = "all"
)

var (
	errClientNotInitialized = errors.New("gitlab client not initialized")
	errUserNotFound         = errors.New("user not found")
)

// GitLabReviewRequestRepository implements repositories.ReviewRequestRepository for GitLab.
type GitLabReviewRequestRepository struct {
	client *gl.Client
}

var _ repositories.ReviewRequestRepository = (*GitLabReviewRequestRepository)(nil)

// NewGitLabReviewRequestRepository creates a GitLab publisher from the review
// settings. A base URL switches to a self-managed instance.
func NewGitLabReviewRequestRepository(settings entities.ReviewSettings) repositories.ReviewRequestRepository {
	var opts []gl.ClientOptionFunc
	if settings.BaseURL != "" {
		opts = append(opts, gl.WithBaseURL(settings.BaseURL))
	}

	client, err := gl.NewClient(settings.Token, opts...)
	if err != nil {
		// Return a publisher that will fail on use rather than panicking at construction
		logger.Warnf("[gitlab] Failed to create client: %v", err)
		return &GitLabReviewRequestRepository{client: nil}
	}
	return &GitLabReviewRequestRepository{client: client}
}

func (p *GitLabReviewRequestRepository) Name() string { return providerName }

// FindExisting lists merge requests from branch in every state; opened,
// locked and merged ones count.
func (p *GitLabReviewRequestRepository) FindExisting(
	ctx context.Context,
	repo entities.Repository,
	branch string,
) (bool, error) {
	if p.client == nil {
		return false, errClientNotInitialized
	}

	opts := &gl.ListProjectMergeRequestsOptions{
		ListOptions:  gl.ListOptions{PerPage: perPage},
		SourceBranch: gl.Ptr(branch),
		State:        gl.Ptr(stateAll),
	}

	var states []entities.ReviewState
	for {
		mrs, resp, err := p.client.MergeRequests.ListProjectMergeRequests(projectID(repo), opts, gl.WithContext(ctx))
		if err != nil {
			return false, fmt.Errorf("failed to list merge requests: %w", err)
		}

		for _, mr := range mrs {
			states = append(states, reviewState(mr.State))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.Debugf("[gitlab] %d merge request(s) from %s: %v", len(states), branch, states)
	return entities.AnyBlocking(states), nil
}

func (p *GitLabReviewRequestRepository) Create(
	ctx context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	if p.client == nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrPublish, errClientNotInitialized)
	}

	sourceBranch := strings.TrimPrefix(input.SourceBranch, "refs/heads/")
	targetBranch := strings.TrimPrefix(input.TargetBranch, "refs/heads/")

	mr, _, err := p.client.MergeRequests.CreateMergeRequest(
		projectID(repo),
		&gl.CreateMergeRequestOptions{
			Title:              gl.Ptr(input.Title),
			Description:        gl.Ptr(input.Description),
			SourceBranch:       gl.Ptr(sourceBranch),
			TargetBranch:       gl.Ptr(targetBranch),
			RemoveSourceBranch: gl.Ptr(true),
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrPublish, err)
	}

	return &entities.PullRequest{
		ID:     int(mr.IID),
		Title:  mr.Title,
		URL:    mr.WebURL,
		Status: mr.State,
	}, nil
}

// AssignReviewer resolves the reviewer's user ID by username and sets it as
// the merge request's reviewer.
func (p *GitLabReviewRequestRepository) AssignReviewer(
	ctx context.Context,
	repo entities.Repository,
	request *entities.PullRequest,
	reviewer string,
) error {
	if p.client == nil {
		return fmt.Errorf("%w: %w", entities.ErrReviewerAssign, errClientNotInitialized)
	}

	users, _, err := p.client.Users.ListUsers(
		&gl.ListUsersOptions{Username: gl.Ptr(reviewer)},
		gl.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to look up %s: %w", entities.ErrReviewerAssign, reviewer, err)
	}
	if len(users) == 0 {
		return fmt.Errorf("%w: %s: %w", entities.ErrReviewerAssign, reviewer, errUserNotFound)
	}

	_, _, err = p.client.MergeRequests.UpdateMergeRequest(
		projectID(repo),
		int64(request.ID),
		&gl.UpdateMergeRequestOptions{ReviewerIDs: gl.Ptr([]int64{users[0].ID})},
		gl.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %s on !%d: %w", entities.ErrReviewerAssign, reviewer, request.ID, err)
	}
	return nil
}

func projectID(repo entities.Repository) string {
	return repo.Organization + "/" + repo.Name
}

func reviewState(state string) entities.ReviewState {
	switch state {
	case "opened", "locked":
		return entities.ReviewOpen
	case "merged":
		return entities.ReviewMerged
	default:
		return entities.ReviewClosed
	}
}
