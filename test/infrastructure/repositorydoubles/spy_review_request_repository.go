//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

// SpyReviewRequestRepository keeps requests in memory, keyed by branch.
// A created request starts open.
type SpyReviewRequestRepository struct {
	States map[string]entities.ReviewState // branch -> state

	FindErr   error
	CreateErr error
	AssignErr error

	// --- spy ---
	Lookups  []string
	Created  []entities.PullRequestInput
	Assigned []string
	Bounded  []string // calls that carried a deadline
}

// NewSpyReviewRequestRepository creates a spy without any request.
func NewSpyReviewRequestRepository() *SpyReviewRequestRepository {
	return &SpyReviewRequestRepository{States: make(map[string]entities.ReviewState)}
}

var _ repositories.ReviewRequestRepository = (*SpyReviewRequestRepository)(nil)

func (s *SpyReviewRequestRepository) Name() string { return "spy" }

func (s *SpyReviewRequestRepository) FindExisting(
	ctx context.Context,
	_ entities.Repository,
	branch string,
) (bool, error) {
	s.Bounded = recordDeadline(ctx, s.Bounded, "find")
	s.Lookups = append(s.Lookups, branch)
	if s.FindErr != nil {
		return false, s.FindErr
	}
	return s.States[branch].BlocksNewRequest(), nil
}

func (s *SpyReviewRequestRepository) Create(
	ctx context.Context,
	_ entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	s.Bounded = recordDeadline(ctx, s.Bounded, "create")
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	s.Created = append(s.Created, input)
	s.States[input.SourceBranch] = entities.ReviewOpen
	id := len(s.Created)
	return &entities.PullRequest{
		ID:     id,
		Title:  input.Title,
		URL:    fmt.Sprintf("https://example.com/pulls/%d", id),
		Status: string(entities.ReviewOpen),
	}, nil
}

func (s *SpyReviewRequestRepository) AssignReviewer(
	ctx context.Context,
	_ entities.Repository,
	_ *entities.PullRequest,
	reviewer string,
) error {
	s.Bounded = recordDeadline(ctx, s.Bounded, "assign")
	s.Assigned = append(s.Assigned, reviewer)
	return s.AssignErr
}
