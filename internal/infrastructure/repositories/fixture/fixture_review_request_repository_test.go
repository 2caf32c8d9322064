package fixture_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/infrastructure/repositories/fixture"
)

func TestFixtureReviewRequestRepository(t *testing.T) {
	t.Parallel()

	target := entities.Repository{Organization: "org", Name: "infra"}

	t.Run("should block a branch after opening a request for it", func(t *testing.T) {
		t.Parallel()

		// given
		repo := fixture.NewFixtureReviewRequestRepository(entities.ReviewSettings{})
		input := entities.PullRequestInput{SourceBranch: "update-org/app-1.1.0", TargetBranch: "main", Title: "t"}

		// when
		before, _ := repo.FindExisting(context.Background(), target, input.SourceBranch)
		pr, err := repo.Create(context.Background(), target, input)
		after, _ := repo.FindExisting(context.Background(), target, input.SourceBranch)

		// then
		require.NoError(t, err)
		assert.False(t, before)
		assert.True(t, after)
		assert.Equal(t, 1, pr.ID)
	})

	t.Run("should let a closed request be retried", func(t *testing.T) {
		t.Parallel()

		// given
		repo := fixture.NewFixtureReviewRequestRepository(entities.ReviewSettings{}).(*fixture.FixtureReviewRequestRepository)
		repo.SetState("update-org/app-1.1.0", entities.ReviewClosed)

		// when
		exists, err := repo.FindExisting(context.Background(), target, "update-org/app-1.1.0")

		// then
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
