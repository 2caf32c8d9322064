package fixture

import (
	"context"
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

const providerName = "fixture"

// FixtureReviewRequestRepository keeps review requests in memory. Requests it
// opens stay open, so a second pass in the same process sees them.
type FixtureReviewRequestRepository struct {
	mu       sync.Mutex
	states   map[string]entities.ReviewState
	requests []entities.PullRequest
	nextID   int
}

var _ repositories.ReviewRequestRepository = (*FixtureReviewRequestRepository)(nil)

// NewFixtureReviewRequestRepository creates an empty in-memory publisher.
func NewFixtureReviewRequestRepository(_ entities.ReviewSettings) repositories.ReviewRequestRepository {
	return &FixtureReviewRequestRepository{
		states: make(map[string]entities.ReviewState),
		nextID: 1,
	}
}

func (p *FixtureReviewRequestRepository) Name() string { return providerName }

func (p *FixtureReviewRequestRepository) FindExisting(
	_ context.Context,
	_ entities.Repository,
	branch string,
) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states[branch].BlocksNewRequest(), nil
}

func (p *FixtureReviewRequestRepository) Create(
	_ context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pr := entities.PullRequest{
		ID:     p.nextID,
		Title:  input.Title,
		URL:    fmt.Sprintf("fixture://%s/%s/pull/%d", repo.Organization, repo.Name, p.nextID),
		Status: string(entities.ReviewOpen),
	}
	p.nextID++
	p.states[input.SourceBranch] = entities.ReviewOpen
	p.requests = append(p.requests, pr)

	logger.Infof("[fixture] Opened request #%d from %s: %s", pr.ID, input.SourceBranch, input.Title)
	return &pr, nil
}

func (p *FixtureReviewRequestRepository) AssignReviewer(
	_ context.Context,
	_ entities.Repository,
	request *entities.PullRequest,
	reviewer string,
) error {
	logger.Infof("[fixture] Requested review from %s on #%d", reviewer, request.ID)
	return nil
}

// SetState records a request state for branch, as if it had been opened,
// merged or closed on the host.
func (p *FixtureReviewRequestRepository) SetState(branch string, state entities.ReviewState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states[branch] = state
}

// Requests returns the requests opened so far.
func (p *FixtureReviewRequestRepository) Requests() []entities.PullRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entities.PullRequest(nil), p.requests...)
}
