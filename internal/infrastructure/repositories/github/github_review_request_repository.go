package github

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

const (
	providerName = "github"
	perPage      = 100
	stateAll     = "all"
	stateOpen    = "open"
)

// GitHubReviewRequestRepository implements repositories.ReviewRequestRepository for GitHub.
type GitHubReviewRequestRepository struct {
	client *gh.Client
}

var _ repositories.ReviewRequestRepository = (*GitHubReviewRequestRepository)(nil)

// NewGitHubReviewRequestRepository creates a GitHub publisher from the review
// settings. A base URL switches to a GitHub Enterprise Server instance.
func NewGitHubReviewRequestRepository(settings entities.ReviewSettings) repositories.ReviewRequestRepository {
	client := gh.NewClient(nil).WithAuthToken(settings.Token)
	if settings.BaseURL != "" {
		enterprise, err := client.WithEnterpriseURLs(settings.BaseURL, settings.BaseURL)
		if err != nil {
			logger.Warnf("[github] Ignoring invalid base URL %q: %v", settings.BaseURL, err)
		} else {
			client = enterprise
		}
	}
	return &GitHubReviewRequestRepository{client: client}
}

func (p *GitHubReviewRequestRepository) Name() string { return providerName }

// FindExisting lists pull requests from branch in every state; only open and
// merged ones count.
func (p *GitHubReviewRequestRepository) FindExisting(
	ctx context.Context,
	repo entities.Repository,
	branch string,
) (bool, error) {
	opts := &gh.PullRequestListOptions{
		Head:        repo.Organization + ":" + branch,
		State:       stateAll,
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var states []entities.ReviewState
	for {
		prs, resp, err := p.client.PullRequests.List(ctx, repo.Organization, repo.Name, opts)
		if err != nil {
			return false, fmt.Errorf("failed to list pull requests: %w", err)
		}

		for _, pr := range prs {
			if pr.GetHead().GetRef() != "" && pr.GetHead().GetRef() != branch {
				continue
			}
			states = append(states, reviewState(pr))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.Debugf("[github] %d pull request(s) from %s: %v", len(states), branch, states)
	return entities.AnyBlocking(states), nil
}

func (p *GitHubReviewRequestRepository) Create(
	ctx context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	sourceBranch := strings.TrimPrefix(input.SourceBranch, "refs/heads/")
	targetBranch := strings.TrimPrefix(input.TargetBranch, "refs/heads/")

	maintainerCanModify := true
	pr, _, err := p.client.PullRequests.Create(
		ctx, repo.Organization, repo.Name,
		&gh.NewPullRequest{
			Title:               &input.Title,
			Head:                &sourceBranch,
			Base:                &targetBranch,
			Body:                &input.Description,
			MaintainerCanModify: &maintainerCanModify,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrPublish, err)
	}

	return &entities.PullRequest{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Status: pr.GetState(),
	}, nil
}

func (p *GitHubReviewRequestRepository) AssignReviewer(
	ctx context.Context,
	repo entities.Repository,
	request *entities.PullRequest,
	reviewer string,
) error {
	_, _, err := p.client.PullRequests.RequestReviewers(
		ctx, repo.Organization, repo.Name, request.ID,
		gh.ReviewersRequest{Reviewers: []string{reviewer}},
	)
	if err != nil {
		return fmt.Errorf("%w: %s on #%d: %w", entities.ErrReviewerAssign, reviewer, request.ID, err)
	}
	return nil
}

func reviewState(pr *gh.PullRequest) entities.ReviewState {
	switch {
	case pr.GetState() == stateOpen:
		return entities.ReviewOpen
	case pr.MergedAt != nil || pr.GetMerged():
		return entities.ReviewMerged
	default:
		return entities.ReviewClosed
	}
}
